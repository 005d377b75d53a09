// ABOUTME: Prompt text and excerpt formatting for the answer generator
// ABOUTME: Excerpts are labeled "[Page N]:" blocks so page numbers can be recovered from the text
package core

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/harper/book-concierge/internal/models"
)

const systemInstructionsTemplate = `You are the Book Concierge for '%s'.
You ONLY answer questions based on the content of the book excerpts you are given.
If a user asks about unrelated topics, politely explain that your purpose is to help them understand this book, and offer to answer a question about it instead.
Answer in plain language and in the same language the user wrote in. Default to English if you cannot tell.
If the user seems unsure about the book, you may suggest helpful questions such as:
- Would you like to know what topics are covered?
- Do you want to see examples from the book?
- Would it help if I explained what kind of reader this book is best suited for?
If the user expresses interest in buying, you may ask which format they prefer.
Format all answers in clear, readable Markdown with short paragraphs, bullet points where helpful, and line breaks between ideas.
Do not push a sale. Your goal is to inform, not to convert.`

const refineSystemPrompt = "You are a helpful assistant refining answers to make them more accurate, clear, and helpful."

// SystemInstructions renders the built-in scope and tone rules for a book
func SystemInstructions(title string) string {
	return fmt.Sprintf(systemInstructionsTemplate, title)
}

// LoadInstructions returns the contents of path, or the built-in text when path is empty
func LoadInstructions(path, title string) (string, error) {
	if path == "" {
		return SystemInstructions(title), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read instructions file: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("instructions file %s is empty", path)
	}
	return text, nil
}

// FormatExcerpts joins matches nearest-first as "[Page N]:\ntext" blocks separated by a blank line
func FormatExcerpts(matches []models.RetrievalMatch) string {
	blocks := make([]string, len(matches))
	for i, m := range matches {
		blocks[i] = fmt.Sprintf("[Page %d]:\n%s", m.Passage.Page, m.Passage.Text)
	}
	return strings.Join(blocks, "\n\n")
}

var pageLabel = regexp.MustCompile(`(?m)^\[Page (\d+)\]:$`)

// ParsePageLabels recovers the page numbers from FormatExcerpts output in order
func ParsePageLabels(text string) []int {
	found := pageLabel.FindAllStringSubmatch(text, -1)
	pages := make([]int, 0, len(found))
	for _, m := range found {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pages = append(pages, n)
	}
	return pages
}

// refineMessages builds the single-turn critique prompt; history is not included
func refineMessages(question, retrievedText, draft string) []models.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Here is a user question:\n\n%s\n\n", question)
	fmt.Fprintf(&b, "Here are the book excerpts to base the answer on:\n\n%s\n\n", retrievedText)
	fmt.Fprintf(&b, "Here is the original answer:\n\n%s\n\n", draft)
	b.WriteString("Please refine this answer to improve clarity, ensure factual accuracy, and better formatting. ")
	b.WriteString("Respond with only the improved answer.")

	return []models.Message{
		{Role: models.RoleSystem, Content: refineSystemPrompt},
		{Role: models.RoleUser, Content: b.String()},
	}
}

// QuotaNotice is shown once a session has used all of its questions
func QuotaNotice(maxQuestions int) string {
	return fmt.Sprintf("You've reached the %d-question limit for this session. Please start a new session to continue.", maxQuestions)
}
