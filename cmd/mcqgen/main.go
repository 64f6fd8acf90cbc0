package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"mcqforge/internal/backend"
	"mcqforge/internal/common"
	"mcqforge/internal/export"
	"mcqforge/internal/extract"
	"mcqforge/internal/mcq"
	"mcqforge/internal/pipeline"
	"mcqforge/internal/render"
	"mcqforge/internal/store"
	"mcqforge/internal/sysinfo"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	difficulty := flag.String("difficulty", "medium", "difficulty level: easy, medium, hard")
	questions := flag.Int("questions", 5, "number of questions to generate (1-20)")
	xlsxOut := flag.String("xlsx", "", "optional path for an XLSX export of the question set")
	htmlOut := flag.String("html", "", "optional path for an HTML rendering of the question set")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "mcqgen [flags] <input-document>")
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	if err := mcq.ValidateParams(*difficulty, *questions); err != nil {
		logger.Error("invalid parameters", "error", err)
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	var history *store.Store
	if cfg.Store.Path != "" {
		var err error
		history, err = store.Open(cfg.Store.Path, logger)
		if err != nil {
			logger.Error("open run history", "path", cfg.Store.Path, "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := history.Close(); cerr != nil {
				logger.Error("close run history", "error", cerr)
			}
		}()
	}

	client := backend.NewHTTPClient(cfg.Backend.BaseURL, logger)
	ready := backend.NewReadiness(client, backend.NewExecRunner(logger), cfg.Backend, logger)
	monitor := sysinfo.NewMonitor(cfg.Resources, logger)
	extractor := extract.NewExtractor(nil, logger)

	p := pipeline.New(logger, cfg.Pipeline, monitor, ready, extractor, client, history)

	ctx := context.Background()
	set, run, err := p.Execute(ctx, inputPath, pipeline.Params{
		Difficulty:   *difficulty,
		NumQuestions: *questions,
	})
	if err != nil {
		logger.Error("run failed", "run_id", run.ID, "stage", run.Stage, "error", err)
		os.Exit(common.ExitCode(err))
	}

	logger.Info("run succeeded",
		"run_id", run.ID,
		"questions", len(set),
		"attempts", len(run.Attempts),
		"output", run.OutputPath,
	)

	if *xlsxOut != "" {
		data, err := export.QuestionSetXLSX(set, filepath.Base(inputPath), logger)
		if err != nil {
			logger.Error("xlsx export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, data, 0o644); err != nil {
			logger.Error("write xlsx", "path", *xlsxOut, "error", err)
			os.Exit(1)
		}
		logger.Info("xlsx written", "path", *xlsxOut)
	}

	if *htmlOut != "" {
		f, err := os.Create(*htmlOut)
		if err != nil {
			logger.Error("create html", "path", *htmlOut, "error", err)
			os.Exit(1)
		}
		err = render.HTML(f, render.Page{
			Source:     filepath.Base(inputPath),
			Difficulty: *difficulty,
			Questions:  set,
		})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			logger.Error("render html", "path", *htmlOut, "error", err)
			os.Exit(1)
		}
		logger.Info("html written", "path", *htmlOut)
	}
}
