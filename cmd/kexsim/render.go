// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	ttcc "github.com/Alireza-Kazemifard/kidney-exchange-simulator"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/dotgraph"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/histoscore"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/log"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/statefile"
)

func doRender(poolFile, outFile string, pointers bool) error {
	f, err := statefile.Load(poolFile)
	if err != nil {
		return fmt.Errorf("load pool file failed: %w", err)
	}

	pool, rejected, err := f.BuildPool()
	if err != nil {
		return fmt.Errorf("pool file invalid: %w", err)
	}
	for _, re := range rejected {
		log.Warnf("%v", re)
	}

	snap := ttcc.Snapshot{}
	if pointers {
		snap.Pointers = ttcc.PointerMap(pool, ttcc.HistoRanker(histoscore.DefaultWeights()))
	}

	if err := dotgraph.WriteFile(outFile, pool, snap); err != nil {
		return fmt.Errorf("write dot file failed: %w", err)
	}
	return nil
}
