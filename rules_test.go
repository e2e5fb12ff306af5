// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ttcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cand(participants []PairID, mod ...func(*chainCandidate)) chainCandidate {
	c := chainCandidate{
		participants: participants,
		length:       len(participants),
		priorityRank: unranked,
	}
	for _, m := range mod {
		m(&c)
	}
	return c
}

func withRank(r int) func(*chainCandidate) {
	return func(c *chainCandidate) { c.priorityRank = r }
}

func withHeadDonorO() func(*chainCandidate) {
	return func(c *chainCandidate) { c.headDonorO = true }
}

func TestPickShortestAndLongest(t *testing.T) {
	cands := []chainCandidate{
		cand([]PairID{9, 8, 7}),
		cand([]PairID{2, 1}),
		cand([]PairID{5, 4, 3}),
	}

	idx, crit, ok := pickShortest(cands)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2.0, crit)

	idx, crit, ok = pickLongest(cands)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 3.0, crit)
}

func TestPickBreaksTiesLexicographically(t *testing.T) {
	cands := []chainCandidate{
		cand([]PairID{10, 1, 9}),
		cand([]PairID{8, 4, 9}),
	}

	idx, _, ok := pickLongest(cands)
	require.True(t, ok)
	assert.Equal(t, 1, idx, "8 sorts before 10")

	idx, _, ok = pickShortest(cands)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestPickPriority(t *testing.T) {
	t.Run("best rank wins", func(t *testing.T) {
		cands := []chainCandidate{
			cand([]PairID{2, 1}, withRank(4)),
			cand([]PairID{5, 4, 3}, withRank(2)),
			cand([]PairID{7, 6}),
		}
		idx, crit, ok := pickPriority(cands)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
		assert.Equal(t, 2.0, crit)
	})

	t.Run("rank ties fall back to lexicographic", func(t *testing.T) {
		cands := []chainCandidate{
			cand([]PairID{6, 3}, withRank(1)),
			cand([]PairID{2, 3}, withRank(1)),
		}
		idx, _, ok := pickPriority(cands)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})

	t.Run("nothing ranked means nothing selectable", func(t *testing.T) {
		cands := []chainCandidate{
			cand([]PairID{2, 1}),
			cand([]PairID{5, 4, 3}),
		}
		_, _, ok := pickPriority(cands)
		assert.False(t, ok)
	})
}

func TestPickTypeODonor(t *testing.T) {
	t.Run("type O heads are preferred", func(t *testing.T) {
		cands := []chainCandidate{
			cand([]PairID{2, 1}, withRank(1)),
			cand([]PairID{5, 4, 3}, withRank(3), withHeadDonorO()),
		}
		idx, crit, ok := pickTypeODonor(cands)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
		assert.Equal(t, 1.0, crit)
	})

	t.Run("priority decides within the preferred set", func(t *testing.T) {
		cands := []chainCandidate{
			cand([]PairID{2, 1}, withRank(2), withHeadDonorO()),
			cand([]PairID{5, 4, 3}, withRank(1), withHeadDonorO()),
			cand([]PairID{7, 6}, withRank(3)),
		}
		idx, crit, ok := pickTypeODonor(cands)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
		assert.Equal(t, 1.0, crit)
	})

	t.Run("no qualifying head falls back to priority over all", func(t *testing.T) {
		cands := []chainCandidate{
			cand([]PairID{2, 1}, withRank(2)),
			cand([]PairID{5, 4, 3}, withRank(1)),
		}
		idx, crit, ok := pickTypeODonor(cands)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
		assert.Equal(t, 0.0, crit)
	})

	t.Run("nothing ranked falls back to lexicographic", func(t *testing.T) {
		cands := []chainCandidate{
			cand([]PairID{5, 4, 3}, withHeadDonorO()),
			cand([]PairID{2, 1}, withHeadDonorO()),
			cand([]PairID{1, 6}),
		}
		idx, crit, ok := pickTypeODonor(cands)
		require.True(t, ok)
		assert.Equal(t, 1, idx, "narrowed to O heads before comparing")
		assert.Equal(t, 1.0, crit)
	})
}

func TestPickScore(t *testing.T) {
	// Two patients, one type O, one highly sensitized: 20 + 5 + 10 = 35.
	small := cand([]PairID{2, 1}, func(c *chainCandidate) {
		c.oPatients = 1
		c.highPRA = 1
	})
	// Three ordinary patients: 30.
	big := cand([]PairID{5, 4, 3})

	assert.Equal(t, 35, chainScore(small))
	assert.Equal(t, 30, chainScore(big))

	idx, crit, ok := pickScore([]chainCandidate{big, small})
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 35.0, crit)

	t.Run("score ties fall back to lexicographic", func(t *testing.T) {
		a := cand([]PairID{4, 3})
		b := cand([]PairID{2, 1})
		idx, _, ok := pickScore([]chainCandidate{a, b})
		require.True(t, ok)
		assert.Equal(t, 1, idx)
	})
}

func TestLexLess(t *testing.T) {
	assert.True(t, lexLess([]PairID{1, 2}, []PairID{1, 3}))
	assert.True(t, lexLess([]PairID{1, 2}, []PairID{1, 2, 3}))
	assert.False(t, lexLess([]PairID{1, 2}, []PairID{1, 2}))
	assert.False(t, lexLess([]PairID{2}, []PairID{1, 9, 9}))
}

func TestParseRule(t *testing.T) {
	for _, s := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		r, err := ParseRule(s)
		require.NoError(t, err)
		assert.Equal(t, Rule(s), r)
		assert.True(t, r.Valid())
	}

	r, err := ParseRule(" G ")
	require.NoError(t, err)
	assert.Equal(t, RuleG, r)

	for _, s := range []string{"", "h", "aa", "priority"} {
		_, err := ParseRule(s)
		assert.ErrorIs(t, err, ErrUnknownRule, "%q", s)
	}
}

func TestRuleKeeps(t *testing.T) {
	assert.False(t, RuleA.Keeps())
	assert.False(t, RuleB.Keeps())
	assert.True(t, RuleC.Keeps())
	assert.False(t, RuleD.Keeps())
	assert.True(t, RuleE.Keeps())
	assert.False(t, RuleF.Keeps())
	assert.False(t, RuleG.Keeps())
}
