// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	ttcc "github.com/Alireza-Kazemifard/kidney-exchange-simulator"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/dotgraph"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/internal/config"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/log"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/statefile"
)

func doRun(ctx context.Context, poolFile, ruleName, configFile, outFile, eventsFile, dotDir string,
	highPRA, maxCycle, maxChain int, priority []int, verbose bool) error {

	var (
		rule ttcc.Rule
		opts = &ttcc.Options{}
	)

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config failed: %w", err)
		}
		rule, opts, err = cfg.Engine()
		if err != nil {
			return err
		}
	}

	f, err := statefile.Load(poolFile)
	if err != nil {
		return fmt.Errorf("load pool file failed: %w", err)
	}

	// The rule flag wins over the config file, which wins over the rule a
	// saved run was started with.
	if ruleName != "" {
		r, err := ttcc.ParseRule(ruleName)
		if err != nil {
			return err
		}
		rule = r
	}
	if rule == "" && f.Rule != "" {
		r, err := ttcc.ParseRule(f.Rule)
		if err != nil {
			return fmt.Errorf("pool file rule: %w", err)
		}
		rule = r
	}
	if rule == "" {
		rule = ttcc.RuleA
	}

	if highPRA > 0 {
		opts.HighPRA = &highPRA
	}
	if maxCycle > 0 {
		opts.MaxCycleLen = &maxCycle
	}
	if maxChain > 0 {
		opts.MaxChainLen = &maxChain
	}
	if len(priority) > 0 {
		opts.Priority = nil
		for _, id := range priority {
			opts.Priority = append(opts.Priority, ttcc.PairID(id))
		}
	}
	if verbose {
		opts.Logger = log.Default
	}

	pool, rejected, err := f.BuildPool()
	if err != nil {
		return fmt.Errorf("pool file invalid: %w", err)
	}
	for _, re := range rejected {
		log.Warnf("%v", re)
	}

	return runEngine(ctx, pool, rule, opts, outFile, eventsFile, dotDir)
}

func doDemo(ctx context.Context, ruleName, outFile, eventsFile, dotDir string, verbose bool) error {
	rule, err := ttcc.ParseRule(ruleName)
	if err != nil {
		return err
	}

	pool, prefs := ttcc.ExamplePool()
	opts := &ttcc.Options{Ranker: prefs}
	if verbose {
		opts.Logger = log.Default
	}

	return runEngine(ctx, pool, rule, opts, outFile, eventsFile, dotDir)
}

func runEngine(ctx context.Context, pool *ttcc.Pool, rule ttcc.Rule, opts *ttcc.Options,
	outFile, eventsFile, dotDir string) error {

	var events *json.Encoder
	if eventsFile != "" {
		fh, err := os.Create(eventsFile)
		if err != nil {
			return fmt.Errorf("create events file failed: %w", err)
		}
		defer fh.Close()
		events = json.NewEncoder(fh)
	}
	if dotDir != "" {
		if err := os.MkdirAll(dotDir, 0755); err != nil {
			return fmt.Errorf("create dot dir failed: %w", err)
		}
	}

	var obsErr error
	opts.Observer = func(s ttcc.Snapshot) {
		if events != nil {
			if err := events.Encode(s); err != nil && obsErr == nil {
				obsErr = err
			}
		}
		if dotDir != "" {
			path := filepath.Join(dotDir, fmt.Sprintf("round%03d.dot", s.Round))
			if err := dotgraph.WriteFile(path, pool, s); err != nil && obsErr == nil {
				obsErr = err
			}
		}
	}

	e, err := ttcc.NewEngine(pool, rule, opts)
	if err != nil {
		return err
	}

	rep, runErr := e.Run(ctx)
	if obsErr != nil {
		return fmt.Errorf("write round output failed: %w", obsErr)
	}

	printReport(os.Stdout, rep, pool)

	// Save even a canceled run, so it can be resumed.
	if outFile != "" {
		if err := statefile.Save(outFile, pool, rule); err != nil {
			return fmt.Errorf("write pool file failed: %w", err)
		}
	}
	return runErr
}

func printReport(w io.Writer, rep ttcc.Report, pool *ttcc.Pool) {
	fmt.Fprintf(w, "run %s: rule %s, %d round(s), %s\n", rep.RunID, rep.Rule, rep.Rounds, rep.Reason)
	fmt.Fprintf(w, "matched in cycles %d, in chains %d, waitlisted %d, unmatched %d\n\n",
		rep.MatchedCycles, rep.MatchedChains, rep.Waitlisted, rep.Unmatched)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAIR\tPATIENT\tDONOR\tSTATUS\tKIDNEY FROM")
	for _, p := range pool.Pairs() {
		from := "-"
		switch p.Status {
		case ttcc.StatusMatched:
			from = strconv.Itoa(int(p.ReceivedFrom))
		case ttcc.StatusDonated:
			from = "waitlist"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			p.ID, p.Patient.Blood, p.Donor.Blood, p.Status, from)
	}
	tw.Flush()
}
