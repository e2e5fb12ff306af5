// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ttcc

import "math"

// Chain score terms for rule g.
const (
	scorePerPatient  = 10
	scorePerOPatient = 5
	scorePerHighPRA  = 10
)

const unranked = math.MaxInt

// chainCandidate is one selectable chain with the features the rules look
// at, precomputed by the engine.
type chainCandidate struct {
	participants []PairID
	length       int
	oPatients    int  // patients with blood type O
	highPRA      int  // patients at or over the sensitization threshold
	headDonorO   bool // waitlist-bound donor is blood type O
	priorityRank int  // best priority rank on the chain, unranked if none
}

type ruleSpec struct {
	keep bool
	pick func(cands []chainCandidate) (idx int, criterion float64, ok bool)
}

// rules selection criteria:
//
//	a: fewest patients, removed
//	b: most patients, removed
//	c: most patients, kept
//	d: chain of the highest-priority patient, removed
//	e: chain of the highest-priority patient, kept
//	f: type O waitlist-bound donor first, then priority, removed
//	g: highest chain score, removed
//
// Ties always break to the lexicographically smallest participant list.
// pick functions assume a non-empty candidate list; ok false means the rule
// declines every candidate.
var rules = map[Rule]ruleSpec{
	RuleA: {keep: false, pick: pickShortest},
	RuleB: {keep: false, pick: pickLongest},
	RuleC: {keep: true, pick: pickLongest},
	RuleD: {keep: false, pick: pickPriority},
	RuleE: {keep: true, pick: pickPriority},
	RuleF: {keep: false, pick: pickTypeODonor},
	RuleG: {keep: false, pick: pickScore},
}

func pickShortest(cands []chainCandidate) (int, float64, bool) {
	best := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].length < cands[best].length ||
			cands[i].length == cands[best].length && lexLess(cands[i].participants, cands[best].participants) {
			best = i
		}
	}
	return best, float64(cands[best].length), true
}

func pickLongest(cands []chainCandidate) (int, float64, bool) {
	best := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].length > cands[best].length ||
			cands[i].length == cands[best].length && lexLess(cands[i].participants, cands[best].participants) {
			best = i
		}
	}
	return best, float64(cands[best].length), true
}

// pickPriority selects the chain carrying the best-ranked patient. With no
// ranked patient on any chain there is nothing to select.
func pickPriority(cands []chainCandidate) (int, float64, bool) {
	best := -1
	for i := range cands {
		if cands[i].priorityRank == unranked {
			continue
		}
		if best < 0 || cands[i].priorityRank < cands[best].priorityRank ||
			cands[i].priorityRank == cands[best].priorityRank && lexLess(cands[i].participants, cands[best].participants) {
			best = i
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, float64(cands[best].priorityRank), true
}

// pickTypeODonor narrows to chains sending a type O kidney to the waitlist
// when any exist, then applies the priority criterion within the narrowed
// set, falling back to the lexicographically smallest chain when no
// participant is ranked.
func pickTypeODonor(cands []chainCandidate) (int, float64, bool) {
	sub := make([]int, 0, len(cands))
	for i := range cands {
		if cands[i].headDonorO {
			sub = append(sub, i)
		}
	}
	if len(sub) == 0 {
		for i := range cands {
			sub = append(sub, i)
		}
	}

	best := -1
	for _, i := range sub {
		if cands[i].priorityRank == unranked {
			continue
		}
		if best < 0 || cands[i].priorityRank < cands[best].priorityRank ||
			cands[i].priorityRank == cands[best].priorityRank && lexLess(cands[i].participants, cands[best].participants) {
			best = i
		}
	}
	if best < 0 {
		best = sub[0]
		for _, i := range sub[1:] {
			if lexLess(cands[i].participants, cands[best].participants) {
				best = i
			}
		}
	}

	if cands[best].headDonorO {
		return best, 1, true
	}
	return best, 0, true
}

func pickScore(cands []chainCandidate) (int, float64, bool) {
	best := 0
	for i := 1; i < len(cands); i++ {
		si, sb := chainScore(cands[i]), chainScore(cands[best])
		if si > sb ||
			si == sb && lexLess(cands[i].participants, cands[best].participants) {
			best = i
		}
	}
	return best, float64(chainScore(cands[best])), true
}

func chainScore(c chainCandidate) int {
	return scorePerPatient*c.length + scorePerOPatient*c.oPatients + scorePerHighPRA*c.highPRA
}

// lexLess orders participant lists element-wise, shorter prefix first.
func lexLess(a, b []PairID) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
