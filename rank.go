// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ttcc

import (
	"sort"

	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/histoscore"
)

// HistoRanker returns the standard ranker: candidates are vetoed by ABO
// incompatibility or a positive crossmatch, and the rest are scored with
// w.Utility.
func HistoRanker(w histoscore.Weights) Ranker {
	return histoRanker{w}
}

type histoRanker struct {
	w histoscore.Weights
}

func (r histoRanker) Utility(of, candidate *Pair) (float64, bool) {
	if !candidate.Donor.Blood.CanDonateTo(of.Patient.Blood) {
		return 0, false
	}
	if histoscore.CrossmatchPositive(candidate.Donor.HLA, of.Patient.Unacceptable) {
		return 0, false
	}
	m := histoscore.MismatchCount(of.Patient.HLA, candidate.Donor.HLA)
	return r.w.Utility(of.Patient.Age, candidate.Donor.Age, m), true
}

// FixedPreferences ranks candidates by explicit per-pair preference lists
// instead of clinical scoring: earlier entries rank higher, pairs absent
// from the list are incompatible. Useful for replaying published examples
// and for tests.
type FixedPreferences map[PairID][]PairID

func (f FixedPreferences) Utility(of, candidate *Pair) (float64, bool) {
	for i, id := range f[of.ID] {
		if id == candidate.ID {
			return -float64(i), true
		}
	}
	return 0, false
}

type rankedCandidate struct {
	id      PairID
	utility float64
}

// RankCandidates returns the preference list of pair of: every compatible
// candidate ordered by descending utility, smaller ID first on ties. The
// pair itself is never a candidate.
func RankCandidates(of *Pair, candidates []*Pair, r Ranker) []PairID {
	ranked := make([]rankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == of.ID {
			continue
		}
		u, ok := r.Utility(of, c)
		if !ok {
			continue
		}
		ranked = append(ranked, rankedCandidate{c.ID, u})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].utility > ranked[j].utility ||
			ranked[i].utility == ranked[j].utility && ranked[i].id < ranked[j].id
	})

	ids := make([]PairID, len(ranked))
	for i := range ranked {
		ids[i] = ranked[i].id
	}
	return ids
}
