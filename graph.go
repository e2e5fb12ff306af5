// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ttcc

import "sort"

// pointerGraph is one round's functional graph over the active pairs in
// compact array form: ids holds the active PairIDs ascending and ptr the
// pointer target of each as a position in ids, or sinkPos for the waitlist.
type pointerGraph struct {
	ids []PairID
	pos map[PairID]int
	ptr []int
}

const sinkPos = -1

// buildPointerGraph points every active pair at the top entry of its
// preference list, or at the waitlist when the list is empty.
func buildPointerGraph(pool *Pool, rank Ranker) *pointerGraph {
	ids := pool.Active()

	g := &pointerGraph{
		ids: ids,
		pos: make(map[PairID]int, len(ids)),
		ptr: make([]int, len(ids)),
	}
	for i, id := range ids {
		g.pos[id] = i
	}

	candidates := make([]*Pair, len(ids))
	for i, id := range ids {
		candidates[i] = pool.Pair(id)
	}

	for i, id := range ids {
		prefs := RankCandidates(pool.Pair(id), candidates, rank)
		if len(prefs) == 0 {
			g.ptr[i] = sinkPos
			continue
		}
		g.ptr[i] = g.pos[prefs[0]]
	}
	return g
}

func (g *pointerGraph) pointerMap() map[PairID]PairID {
	m := make(map[PairID]PairID, len(g.ids))
	for i, id := range g.ids {
		if g.ptr[i] == sinkPos {
			m[id] = Waitlist
		} else {
			m[id] = g.ids[g.ptr[i]]
		}
	}
	return m
}

// PointerMap computes the pointer graph the next round would be decided on,
// without executing anything. Each active pair maps to its pointer target,
// with Waitlist for the sink.
func PointerMap(pool *Pool, rank Ranker) map[PairID]PairID {
	return buildPointerGraph(pool, rank).pointerMap()
}

// cycles returns every cycle of the graph, each rotated to start at its
// smallest PairID, ordered by that ID. Since every pair has at most one
// pointer, cycles are disjoint and one walk per unvisited pair finds them
// all.
func (g *pointerGraph) cycles() []Cycle {
	const (
		white = iota // unvisited
		grey         // on the current walk
		black        // finished
	)
	color := make([]int, len(g.ids))

	var found []Cycle
	for start := range g.ids {
		if color[start] != white {
			continue
		}

		var path []int
		at := start
		for at != sinkPos && color[at] == white {
			color[at] = grey
			path = append(path, at)
			at = g.ptr[at]
		}

		// A walk that closes on its own grey trail found a new cycle;
		// one ending at the sink or on black ground found none.
		if at != sinkPos && color[at] == grey {
			i := 0
			for path[i] != at {
				i++
			}
			found = append(found, g.canonical(path[i:]))
		}
		for _, p := range path {
			color[p] = black
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i][0] < found[j][0]
	})
	return found
}

func (g *pointerGraph) canonical(cycle []int) Cycle {
	min := 0
	for i := range cycle {
		if g.ids[cycle[i]] < g.ids[cycle[min]] {
			min = i
		}
	}
	out := make(Cycle, len(cycle))
	for i := range cycle {
		out[i] = g.ids[cycle[(min+i)%len(cycle)]]
	}
	return out
}

// chains returns every maximal chain: a walk from an in-degree-0 pair along
// pointers to the waitlist, in ascending order of the starting pair. Walks
// that run into a cycle are dropped, they can never reach the sink.
func (g *pointerGraph) chains() [][]PairID {
	indeg := make([]int, len(g.ids))
	for _, t := range g.ptr {
		if t != sinkPos {
			indeg[t]++
		}
	}

	var found [][]PairID
	for start := range g.ids {
		if indeg[start] != 0 {
			continue
		}

		var path []PairID
		on := make([]bool, len(g.ids))
		at := start
		for at != sinkPos && !on[at] {
			on[at] = true
			path = append(path, g.ids[at])
			at = g.ptr[at]
		}
		if at == sinkPos {
			found = append(found, path)
		}
	}
	return found
}
