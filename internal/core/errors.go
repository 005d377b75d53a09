// ABOUTME: Error kinds surfaced to callers of the concierge
// ABOUTME: Wrapped errors keep the underlying cause reachable with errors.Is / errors.As
package core

import "errors"

var (
	// ErrRetrieval covers embedding and vector search failures
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration covers completion failures in the answer or refinement pass
	ErrGeneration = errors.New("answer generation failed")
	// ErrEmptyQuestion is returned for blank input
	ErrEmptyQuestion = errors.New("question is empty")
)
