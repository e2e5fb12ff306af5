// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads run configuration from TOML files.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	ttcc "github.com/Alireza-Kazemifard/kidney-exchange-simulator"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/histoscore"
)

// WeightsConfig overrides individual scoring weights; nil fields keep the
// histoscore defaults.
type WeightsConfig struct {
	HLAPenalty       *float64 `toml:"hla_penalty"`
	AgePenalty       *float64 `toml:"age_penalty"`
	SeniorHLAPenalty *float64 `toml:"senior_hla_penalty"`
	SeniorAgePenalty *float64 `toml:"senior_age_penalty"`
	SeniorAge        *int     `toml:"senior_age"`
	IdealDonorAge    *int     `toml:"ideal_donor_age"`
	AgeScale         *float64 `toml:"age_scale"`
}

type Config struct {
	Rule        string        `toml:"rule"`
	HighPRA     *int          `toml:"high_pra"`
	MaxCycleLen *int          `toml:"max_cycle_len"`
	MaxChainLen *int          `toml:"max_chain_len"`
	Priority    []int         `toml:"priority"`
	Weights     WeightsConfig `toml:"weights"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

// Engine builds the rule and engine options the file describes. An absent
// rule defaults to rule a.
func (c *Config) Engine() (ttcc.Rule, *ttcc.Options, error) {
	rule := ttcc.RuleA
	if c.Rule != "" {
		r, err := ttcc.ParseRule(c.Rule)
		if err != nil {
			return "", nil, err
		}
		rule = r
	}

	opts := &ttcc.Options{
		HighPRA:     c.HighPRA,
		MaxCycleLen: c.MaxCycleLen,
		MaxChainLen: c.MaxChainLen,
		Weights:     c.weights(),
	}
	for _, id := range c.Priority {
		opts.Priority = append(opts.Priority, ttcc.PairID(id))
	}

	return rule, opts, nil
}

func (c *Config) weights() *histoscore.Weights {
	wc := c.Weights
	w := histoscore.DefaultWeights()
	changed := false

	if wc.HLAPenalty != nil {
		w.HLAPenalty = *wc.HLAPenalty
		changed = true
	}
	if wc.AgePenalty != nil {
		w.AgePenalty = *wc.AgePenalty
		changed = true
	}
	if wc.SeniorHLAPenalty != nil {
		w.SeniorHLAPenalty = *wc.SeniorHLAPenalty
		changed = true
	}
	if wc.SeniorAgePenalty != nil {
		w.SeniorAgePenalty = *wc.SeniorAgePenalty
		changed = true
	}
	if wc.SeniorAge != nil {
		w.SeniorAge = *wc.SeniorAge
		changed = true
	}
	if wc.IdealDonorAge != nil {
		w.IdealDonorAge = *wc.IdealDonorAge
		changed = true
	}
	if wc.AgeScale != nil {
		w.AgeScale = *wc.AgeScale
		changed = true
	}

	if !changed {
		return nil
	}
	return &w
}
