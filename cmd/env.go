package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/needlebench/internal/cost"
	"github.com/sells-group/needlebench/internal/haystack"
	"github.com/sells-group/needlebench/internal/results"
	"github.com/sells-group/needlebench/internal/tokenizer"
)

// initStore opens the configured result store.
func initStore(ctx context.Context) (results.Store, error) {
	st, err := results.Open(ctx, results.Config{
		Driver:      cfg.Store.Driver,
		Path:        cfg.Store.Path,
		DatabaseURL: cfg.Store.DatabaseURL,
	})
	if err != nil {
		return nil, eris.Wrap(err, "open result store")
	}
	return st, nil
}

// initBuilder binds the tested model's tokenizer to the configured corpus.
func initBuilder() (*haystack.Builder, error) {
	tok, err := tokenizer.ForModel(cfg.Model.Name)
	if err != nil {
		return nil, eris.Wrap(err, "init tokenizer")
	}
	return haystack.NewBuilder(tok, os.DirFS(cfg.Corpus.Dir), cfg.Corpus.Pattern,
		haystack.WithShuffle(cfg.Corpus.Shuffle),
		haystack.WithCorpusCache(cfg.Sweep.CacheCorpus),
	), nil
}

// initCosts merges configured pricing over the defaults.
func initCosts() *cost.Calculator {
	rates := cost.DefaultRates()
	for _, p := range cfg.Pricing {
		rates = rates.With(p.Model, cost.ModelRate{Input: p.Input, Output: p.Output})
	}
	return cost.NewCalculator(rates)
}
