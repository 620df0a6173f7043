package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ragqa/internal/app"
	"ragqa/internal/config"
	"ragqa/internal/observability"
	"ragqa/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragqa/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: ragqa [--config=config.yaml] file1.txt [file2.pdf ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Logs go to a file so they do not tear through the terminal UI.
	outputs := cfg.Log.Output
	if len(outputs) == 0 {
		outputs = []string{filepath.Join(os.TempDir(), "ragqa.log")}
	}
	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format, outputs)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.Build(cfg, logger)
	if err != nil {
		log.Fatalf("failed to assemble components: %v", err)
	}

	results, err := a.QA.IngestFiles(context.Background(), inputs)
	if err != nil {
		logger.Error("ingest failed", zap.Error(err))
		log.Fatalf("ingest failed: %v", err)
	}
	var summary strings.Builder
	for _, r := range results {
		fmt.Fprintf(&summary, "%s: %d chunks. %s\n", r.Source, r.ChunksAdded, r.Summary)
	}

	m := tui.New(a.QA, strings.TrimSpace(summary.String()), cfg.Embedder.Timeout()+cfg.Generator.Timeout())
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
