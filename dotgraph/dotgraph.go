// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dotgraph renders round snapshots as Graphviz DOT files.
package dotgraph

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	ttcc "github.com/Alireza-Kazemifard/kidney-exchange-simulator"
)

// Node fill colors per pair status.
const (
	activeColor  = "palegreen"
	matchedColor = "lightgrey"
	donatedColor = "lightsteelblue"
	sinkColor    = "gold"
)

// Write emits the pool and one round snapshot as a digraph. Pairs settled in
// earlier rounds keep their exchange edges in grey; the round's own pointer
// graph is drawn black, with the waitlist sink as a double circle.
func Write(w io.Writer, pool *ttcc.Pool, snap ttcc.Snapshot) error {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "digraph round%d {\n", snap.Round)
	fmt.Fprintf(&buf, "   rankdir=LR;\n")
	fmt.Fprintf(&buf, "   node [shape=ellipse, style=filled];\n")
	fmt.Fprintf(&buf, "   w [label=\"waitlist\", shape=doublecircle, fillcolor=%s];\n", sinkColor)

	for _, p := range pool.Pairs() {
		fmt.Fprintf(&buf, "   p%d [label=%q, fillcolor=%s];\n", p.ID, nodeLabel(p), fillColor(p.Status))
	}

	for _, p := range pool.Pairs() {
		if _, live := snap.Pointers[p.ID]; live {
			// the pointer edge below already shows this pair's exchange
			continue
		}
		switch p.Status {
		case ttcc.StatusMatched:
			fmt.Fprintf(&buf, "   p%d -> p%d [color=dimgrey];\n", p.ID, p.ReceivedFrom)
		case ttcc.StatusDonated:
			fmt.Fprintf(&buf, "   p%d -> w [color=dimgrey];\n", p.ID)
		}
	}

	ids := make([]ttcc.PairID, 0, len(snap.Pointers))
	for id := range snap.Pointers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if to := snap.Pointers[id]; to == ttcc.Waitlist {
			fmt.Fprintf(&buf, "   p%d -> w;\n", id)
		} else {
			fmt.Fprintf(&buf, "   p%d -> p%d;\n", id, to)
		}
	}

	fmt.Fprintf(&buf, "}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile renders to path, ready for dot(1).
func WriteFile(path string, pool *ttcc.Pool, snap ttcc.Snapshot) error {
	var buf bytes.Buffer
	if err := Write(&buf, pool, snap); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func nodeLabel(p *ttcc.Pair) string {
	label := fmt.Sprintf("%d: %s/%s", p.ID, p.Patient.Blood, p.Donor.Blood)
	if p.Patient.PRA > 0 {
		label += fmt.Sprintf("\nPRA %d", p.Patient.PRA)
	}
	return label
}

func fillColor(s ttcc.Status) string {
	switch s {
	case ttcc.StatusMatched:
		return matchedColor
	case ttcc.StatusDonated:
		return donatedColor
	}
	return activeColor
}
