// Command llmcheck sends a few passenger descriptions through the configured
// LLM provider chain and reports which strategy answered each one.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/wolfman30/flight-intent/cmd/mainconfig"
	appconfig "github.com/wolfman30/flight-intent/internal/config"
	"github.com/wolfman30/flight-intent/internal/extraction"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

var samples = []string{
	"me, my wife and our two kids",
	"three adults and a baby",
	"just me",
	"my parents and I, plus my 4 year old nephew",
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	if cfg.LLMProvider == "none" {
		fmt.Println("LLM_PROVIDER is none; set groq, gemini or bedrock to run the check")
		os.Exit(2)
	}
	cfg.UseNER = false
	cfg.PassengerCacheSize = 0

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	logger := logging.NewWithFormat("debug", "text", os.Stderr)
	client, cleanup, err := mainconfig.NewLLMClient(ctx, cfg, logger)
	defer cleanup()
	if err != nil {
		log.Fatalf("llm client: %v", err)
	}
	extractor := mainconfig.NewExtractor(cfg, logger, client)

	fmt.Printf("provider=%s fallback=%s timeout=%s\n", cfg.LLMProvider, cfg.LLMFallbackProvider, cfg.LLMTimeout)
	failures := 0
	for i, text := range samples {
		start := time.Now()
		res, err := extractor.ExtractPassengers(ctx, text)
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			log.Fatalf("check aborted: %v", err)
		}
		status := "ok"
		if res.Source != extraction.PassengerSourceLLM {
			status = "FALLBACK"
			failures++
		}
		fmt.Printf("[%d] %-8s %-45q adults=%d children=%d infants=%d source=%s (%v)\n",
			i+1, status, text, res.Passengers.Adults, res.Passengers.Children, res.Passengers.Infants, res.Source, elapsed)
		if res.LLMErr != nil {
			fmt.Printf("    llm error: %v\n", res.LLMErr)
		}
	}
	if failures > 0 {
		os.Exit(1)
	}
}
