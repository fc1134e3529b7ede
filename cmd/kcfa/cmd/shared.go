// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"log/slog"
	"os"

	"github.com/lkgv/kcfa2/config"
	"github.com/lkgv/kcfa2/domain"
	"github.com/lkgv/kcfa2/engine"
	"github.com/lkgv/kcfa2/event"
	"github.com/spf13/cobra"
)

// commonFlags are shared across every subcommand that runs the engine.
type commonFlags struct {
	eventFiles []string
	configPath string
	policy     string
	verbose    bool
}

func addCommonFlags(cmd *cobra.Command, cf *commonFlags) {
	f := cmd.Flags()
	f.StringSliceVarP(&cf.eventFiles, "events", "e", nil, "JSONL event stream file(s)")
	f.StringVarP(&cf.configPath, "config", "c", "", "YAML configuration file")
	f.StringVarP(&cf.policy, "policy", "p", "", "context policy override (e.g. 2-obj, 1-cfa)")
	f.BoolVarP(&cf.verbose, "verbose", "v", false, "structured debug logging")
	_ = cmd.MarkFlagRequired("events")
}

func loadConfig(cf *commonFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cf.configPath != "" {
		cfg, err = config.Load(cf.configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
	}
	if cf.policy != "" {
		cfg.ContextPolicy = domain.Policy(cf.policy)
	}
	cfg.Verbose = cfg.Verbose || cf.verbose
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// runAnalysis loads configuration and events, then drives the engine to
// completion (or partial completion on timeout/iteration cap).
func runAnalysis(cf *commonFlags) (*engine.Analysis, *event.Memory, engine.Results, error) {
	cfg, err := loadConfig(cf)
	if err != nil {
		return nil, nil, engine.Results{}, err
	}
	src, err := loadEvents(cf.eventFiles)
	if err != nil {
		return nil, nil, engine.Results{}, err
	}
	logger := newLogger(cfg.Verbose)
	a, err := engine.New(cfg, src, logger)
	if err != nil {
		return nil, nil, engine.Results{}, err
	}
	a.Plan()
	a.Initialize()
	a.Run()
	return a, src, a.Results(), nil
}
