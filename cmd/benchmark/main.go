// ABOUTME: Command-line benchmark runner for grounding tests
// ABOUTME: Runs scenarios through fresh concierge sessions and writes JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/harper/book-concierge/benchmarks/ragas"
	"github.com/harper/book-concierge/internal/app"
	"github.com/harper/book-concierge/internal/config"
	"github.com/harper/book-concierge/internal/logging"
)

func main() {
	scenariosPath := flag.String("scenarios", "", "JSON file of scenarios for your book. If empty, runs the built-in scenarios.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	configPath := flag.String("config", "", "Config file path")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (continuing anyway): %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		log.Fatal("OPENAI_API_KEY environment variable is required for benchmarks")
	}

	scenarios := ragas.GetAllTests()
	if *scenariosPath != "" {
		scenarios, err = ragas.LoadScenarios(*scenariosPath)
		if err != nil {
			log.Fatalf("Failed to load scenarios: %v", err)
		}
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFile, *verbose)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	concierge, _, err := app.Build(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create benchmark runner: %v", err)
	}

	fmt.Println("========================================")
	fmt.Printf("Book Concierge Benchmarks: %s\n", cfg.BookTitle)
	fmt.Println("========================================")
	fmt.Printf("Running %d scenarios...\n", len(scenarios))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := ragas.NewBenchmarkRunner(concierge, *verbose, os.Stdout)
	results, err := runner.RunAll(ctx, scenarios)
	if err != nil {
		log.Fatalf("Benchmark interrupted: %v", err)
	}

	summary := ragas.Summarize(results)

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.TestID, result.TestName)
		if result.ErrorMessage != "" {
			fmt.Printf("  Error: %s\n", result.ErrorMessage)
		}
		fmt.Printf("  Faithfulness: %.2f\n", result.FaithfulnessScore)
		fmt.Printf("  Context Recall: %.2f\n", result.ContextRecallScore)
		fmt.Printf("  Overall: %.2f\n", result.OverallScore)
		fmt.Printf("  Status: %s\n", result.Status)
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Tests: %d\n", summary.TotalTests)
	fmt.Printf("Passed: %d\n", summary.Passed)
	fmt.Printf("Failed: %d\n", summary.Failed)
	fmt.Println("========================================")

	if err := ragas.ExportResults(results, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}
	fmt.Printf("✓ Results exported to: %s\n", *outputPath)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}
