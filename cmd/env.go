package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kiso-design/intake-cli/internal/catalog"
	"github.com/kiso-design/intake-cli/internal/docparse"
	"github.com/kiso-design/intake-cli/internal/orchestrate"
	"github.com/kiso-design/intake-cli/internal/store"
	"github.com/kiso-design/intake-cli/pkg/anthropic"
)

// env bundles the wired components a command needs.
type env struct {
	Catalog *catalog.Catalog
	Store   store.Store
	Coord   *orchestrate.Coordinator
}

// initEngine wires catalog, store, extractors and coordinator from config.
func initEngine(ctx context.Context) (*env, error) {
	cat, err := catalog.LoadOrDefault(cfg.Catalog.FieldsPath, cfg.Catalog.PhasesPath)
	if err != nil {
		return nil, eris.Wrap(err, "load field catalog")
	}

	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	var llm orchestrate.LLMExtractor
	if cfg.Anthropic.Enabled && cfg.Anthropic.Key != "" {
		client := anthropic.NewClient(cfg.Anthropic.Key, cfg.Anthropic.RPS)
		llm = anthropic.NewExtractor(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
	} else {
		zap.L().Info("language-model extraction disabled, pattern extraction only")
	}

	parser, err := docparse.New(cfg.DocParse)
	if err != nil {
		st.Close()
		return nil, eris.Wrap(err, "init document parser")
	}

	coord := orchestrate.New(cat, llm, parser, orchestrate.Options{
		FormFieldThreshold: cfg.Intake.FormFieldThreshold,
		LLMTimeout:         time.Duration(cfg.Anthropic.TimeoutSecs) * time.Second,
	})

	return &env{Catalog: cat, Store: st, Coord: coord}, nil
}

func (e *env) Close() {
	if err := e.Store.Close(); err != nil {
		zap.L().Warn("close store", zap.Error(err))
	}
}
