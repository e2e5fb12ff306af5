// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dotgraph

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ttcc "github.com/Alireza-Kazemifard/kidney-exchange-simulator"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/histoscore"
)

func TestWriteEmptyPool(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ttcc.NewPool(), ttcc.Snapshot{Round: 1}))

	want := "digraph round1 {\n" +
		"   rankdir=LR;\n" +
		"   node [shape=ellipse, style=filled];\n" +
		"   w [label=\"waitlist\", shape=doublecircle, fillcolor=gold];\n" +
		"}\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteStatusesAndPointers(t *testing.T) {
	pool := ttcc.NewPool()
	_, err := pool.Add(
		ttcc.Patient{Blood: histoscore.BloodA, Age: 40, PRA: 85},
		ttcc.Donor{Blood: histoscore.BloodO, Age: 30},
	)
	require.NoError(t, err)
	_, err = pool.Add(
		ttcc.Patient{Blood: histoscore.BloodB, Age: 50},
		ttcc.Donor{Blood: histoscore.BloodB, Age: 45},
	)
	require.NoError(t, err)
	_, err = pool.Add(
		ttcc.Patient{Blood: histoscore.BloodO, Age: 35},
		ttcc.Donor{Blood: histoscore.BloodA, Age: 60},
	)
	require.NoError(t, err)

	pool.Pair(2).Status = ttcc.StatusMatched
	pool.Pair(2).ReceivedFrom = 1
	pool.Pair(3).Status = ttcc.StatusDonated

	snap := ttcc.Snapshot{
		Round:    2,
		Pointers: map[ttcc.PairID]ttcc.PairID{1: ttcc.Waitlist},
	}

	render := func() string {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, pool, snap))
		return buf.String()
	}
	out := render()

	assert.Contains(t, out, "digraph round2 {")
	assert.Contains(t, out, `p1 [label="1: A/O\nPRA 85", fillcolor=palegreen];`)
	assert.Contains(t, out, `p2 [label="2: B/B", fillcolor=lightgrey];`)
	assert.Contains(t, out, `p3 [label="3: O/A", fillcolor=lightsteelblue];`)
	assert.Contains(t, out, "p2 -> p1 [color=dimgrey];")
	assert.Contains(t, out, "p3 -> w [color=dimgrey];")
	assert.Contains(t, out, "p1 -> w;")

	assert.Equal(t, out, render(), "rendering must be deterministic")
}

func TestWriteLivePairsSkipHistoryEdges(t *testing.T) {
	pool, prefs := ttcc.ExamplePool()
	e, err := ttcc.NewEngine(pool, ttcc.RuleB, &ttcc.Options{Ranker: prefs})
	require.NoError(t, err)
	snap, more := e.Round()
	require.True(t, more)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, pool, snap))
	out := buf.String()

	// The first round executes the cycle 2 -> 11 -> 3 -> 2. Those pairs are
	// in the round's pointer graph, so only the black pointer edges appear.
	assert.Contains(t, out, "p2 -> p11;")
	assert.Contains(t, out, "p11 -> p3;")
	assert.Contains(t, out, "p3 -> p2;")
	assert.NotContains(t, out, "p2 -> p11 [color=dimgrey];")
	assert.Contains(t, out, "fillcolor=lightgrey")
}

func TestWriteFile(t *testing.T) {
	pool := ttcc.NewPool()
	_, err := pool.Add(
		ttcc.Patient{Blood: histoscore.BloodA, Age: 40},
		ttcc.Donor{Blood: histoscore.BloodA, Age: 40},
	)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "round.dot")
	require.NoError(t, WriteFile(path, pool, ttcc.Snapshot{Round: 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "digraph round1 {"))
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
}

func TestWriteTerminalSnapshotShowsFullHistory(t *testing.T) {
	pool, prefs := ttcc.ExamplePool()
	e, err := ttcc.NewEngine(pool, ttcc.RuleB, &ttcc.Options{Ranker: prefs})
	require.NoError(t, err)
	_, err = e.Run(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, pool, ttcc.Snapshot{Round: 6}))
	out := buf.String()

	// No live graph in a terminal snapshot, so every exchange shows as
	// settled history.
	assert.Contains(t, out, "p2 -> p11 [color=dimgrey];")
	assert.Contains(t, out, "p9 -> w [color=dimgrey];")
	assert.Contains(t, out, "p12 -> w [color=dimgrey];")
	assert.NotContains(t, out, "fillcolor=palegreen")
}
