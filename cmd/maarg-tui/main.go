package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/muhammadolammi/maarg/internal/advisor"
	"github.com/muhammadolammi/maarg/internal/catalog"
	"github.com/muhammadolammi/maarg/internal/config"
	"github.com/muhammadolammi/maarg/internal/interview"
	"github.com/muhammadolammi/maarg/internal/llm"
	"github.com/muhammadolammi/maarg/internal/tui"
)

func main() {
	historyPath := flag.String("db", tui.DefaultHistoryPath(), "path to the local report history")
	showRole := flag.String("history", "", "print saved reports for a role and exit")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// the program owns the terminal
	log.SetOutput(io.Discard)

	history, err := tui.OpenHistory(*historyPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error opening history:", err)
		os.Exit(1)
	}
	defer history.Close()

	if *showRole != "" {
		if err := printHistory(history, *showRole); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading catalog:", err)
		os.Exit(1)
	}

	model, err := llm.New(context.Background(), llm.Config{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		Host:        cfg.LLM.OllamaHost,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error creating model:", err)
		os.Exit(1)
	}
	model = llm.WithRetry(model, cfg.LLM.Attempts, cfg.LLM.Backoff)
	adv := advisor.New(model, cat, cfg.Interview.QuestionCount)

	ctrl := interview.New(adv,
		interview.WithPacing(cfg.Interview.Pacing),
		interview.WithRoleCheck(cat.HasRole),
	)

	if err := tui.Run(ctrl, cat.RoleNames(), history); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printHistory(h *tui.History, role string) error {
	entries, err := h.Reports(role, 10)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No saved reports for %s.\n", role)
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %3.0f  %s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Report.ConfidenceScore, e.Report.Summary)
	}
	return nil
}
