package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/veritas-ai/veritas/src/ai/analyst"
	aicore "github.com/veritas-ai/veritas/src/ai/core"
	_ "github.com/veritas-ai/veritas/src/ai/providers"
	"github.com/veritas-ai/veritas/src/detector"
	"github.com/veritas-ai/veritas/src/normalize"
	"github.com/veritas-ai/veritas/src/verdict"
)

const defaultArticle = `Scientists at a major research university announced today that a new study of 10,000 participants found regular moderate exercise is associated with improved cardiovascular outcomes. The findings, published in a peer-reviewed journal, are consistent with decades of prior research, according to the American Heart Association.`

var (
	pathFlag     = flag.String("path", "llm", "Scoring path to exercise: llm|detector|both")
	providerFlag = flag.String("provider", "", "AI provider (default from AI_PROVIDER env)")
	modelFlag    = flag.String("model", "", "Override model name")
	textFlag     = flag.String("text", defaultArticle, "Article text to score")
	detectorURL  = flag.String("detector-url", "http://localhost:8000", "Detection service base URL")
	timeoutFlag  = flag.Duration("timeout", 90*time.Second, "Per-path timeout")
)

func main() {
	log.SetFlags(0)
	flag.Parse()
	_ = godotenv.Load()

	weights := verdict.DefaultWeights()

	switch *pathFlag {
	case "llm":
		runLLM(weights)
	case "detector":
		runDetector(weights)
	case "both":
		runDetector(weights)
		runLLM(weights)
	default:
		log.Fatalf("invalid path %q (want llm|detector|both)", *pathFlag)
	}
}

func runLLM(weights verdict.Weights) {
	provider := *providerFlag
	if provider == "" {
		provider = os.Getenv("AI_PROVIDER")
	}

	client, err := aicore.NewClient(aicore.FactoryConfig{
		Provider:  provider,
		Model:     *modelFlag,
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
		ClaudeKey: os.Getenv("ANTHROPIC_API_KEY"),
	})
	if err != nil {
		log.Fatalf("client init: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	fmt.Println("=== llm ===")
	start := time.Now()
	analysis, err := analyst.New(client, weights).Analyze(ctx, *textFlag)
	if err != nil {
		fmt.Printf("llm ERROR (%s): %v\n", time.Since(start).Round(time.Millisecond), err)
		return
	}
	printAnalysis(analysis, time.Since(start))
}

func runDetector(weights verdict.Weights) {
	det := detector.New(*detectorURL, normalize.New(weights, normalize.DefaultOptions()))

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	fmt.Println("=== detector ===")
	start := time.Now()
	analysis, err := det.Analyze(ctx, *textFlag, "smoketest")
	if err != nil {
		fmt.Printf("detector ERROR (%s): %v\n", time.Since(start).Round(time.Millisecond), err)
		return
	}
	printAnalysis(analysis, time.Since(start))
}

func printAnalysis(a *verdict.Analysis, took time.Duration) {
	fmt.Printf("verdict=%s score=%.3f risk=%s confidence=%s (%s)\n",
		a.PrimaryVerdict, a.FinalScore, a.RiskLevel, a.ConfidenceLevel, took.Round(time.Millisecond))
	blob, err := json.MarshalIndent(a, "", "  ")
	if err == nil {
		fmt.Println(string(blob))
	}
}
