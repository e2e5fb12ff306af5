// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	ttcc "github.com/Alireza-Kazemifard/kidney-exchange-simulator"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/statefile"
)

func doCheck(poolFile string) error {
	f, err := statefile.Load(poolFile)
	if err != nil {
		return fmt.Errorf("load pool file failed: %w", err)
	}

	pool, rejected, err := f.BuildPool()
	if err != nil {
		return fmt.Errorf("pool file invalid: %w", err)
	}
	for _, re := range rejected {
		fmt.Println(re)
	}

	counts := make(map[ttcc.Status]int)
	for _, p := range pool.Pairs() {
		counts[p.Status]++
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "records\t%d\n", len(f.Pairs))
	fmt.Fprintf(tw, "active\t%d\n", counts[ttcc.StatusActive])
	fmt.Fprintf(tw, "matched\t%d\n", counts[ttcc.StatusMatched])
	fmt.Fprintf(tw, "donated\t%d\n", counts[ttcc.StatusDonated])
	fmt.Fprintf(tw, "rejected\t%d\n", len(rejected))
	tw.Flush()

	if len(rejected) > 0 {
		return fmt.Errorf("%d of %d records rejected", len(rejected), len(f.Pairs))
	}
	return nil
}
