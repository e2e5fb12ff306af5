// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ttcc implements the Top Trading Cycles and Chains mechanism for
// kidney paired-donation pools.
package ttcc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/histoscore"
)

// PairID identifies a registered pair. IDs are assigned sequentially from 1
// in registration order.
type PairID int

// Waitlist is the pointer-graph sink: a pair pointing at it offers its donor
// kidney to the deceased-donor waitlist.
const Waitlist PairID = 0

type Status string

const (
	StatusActive  Status = "active"
	StatusMatched Status = "matched"
	StatusDonated Status = "donated" // chain tail, patient moved to the waitlist
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusMatched, StatusDonated:
		return true
	}
	return false
}

type Patient struct {
	Blood        histoscore.BloodType
	Age          int
	HLA          histoscore.Profile
	PRA          int // panel reactive antibody, percent
	Unacceptable []string
}

type Donor struct {
	Blood histoscore.BloodType
	Age   int
	HLA   histoscore.Profile
}

// Pair is one patient with their incompatible intended donor. ReceivedFrom
// records, once matched, the pair whose donor kidney the patient receives.
type Pair struct {
	ID      PairID
	Patient Patient
	Donor   Donor

	Status       Status
	ReceivedFrom PairID
}

// Ranker orders candidate donors for a patient. Utility scores the donor of
// pair candidate for the patient of pair of; ok false means the donation is
// impossible and the candidate is skipped entirely.
type Ranker interface {
	Utility(of, candidate *Pair) (utility float64, ok bool)
}

// Rule selects which chain-selection policy a run uses.
type Rule string

const (
	RuleA Rule = "a" // shortest chain, removed
	RuleB Rule = "b" // longest chain, removed
	RuleC Rule = "c" // longest chain, kept
	RuleD Rule = "d" // highest-priority patient's chain, removed
	RuleE Rule = "e" // highest-priority patient's chain, kept
	RuleF Rule = "f" // type O waitlist-bound donor preferred, removed
	RuleG Rule = "g" // highest-scoring chain, removed
)

var ErrUnknownRule = errors.New("unknown rule")

// ParseRule maps a policy name ("a" through "g", case-insensitive) to its
// Rule.
func ParseRule(s string) (Rule, error) {
	r := Rule(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := rules[r]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownRule, s)
}

// Keeps reports whether the rule leaves selected chains tentative instead of
// executing them.
func (r Rule) Keeps() bool {
	return rules[r].keep
}

func (r Rule) Valid() bool {
	_, ok := rules[r]
	return ok
}

// State of the engine, in the order a round moves through them.
type State string

const (
	StateIdle          State = "idle"
	StateBuildingGraph State = "building_graph"
	StateCyclesFound   State = "cycles_found"
	StateChainFound    State = "chain_found"
	StateTerminal      State = "terminal"
)

type TerminationReason string

const (
	// ReasonPoolExhausted: no active pairs remain.
	ReasonPoolExhausted TerminationReason = "pool_exhausted"
	// ReasonNoCandidates: active pairs remain but no cycle is executable
	// and no chain is selectable.
	ReasonNoCandidates TerminationReason = "no_candidates"
	// ReasonStalled: a keep rule chose the same chain in consecutive
	// rounds without any cycle forming.
	ReasonStalled TerminationReason = "stalled"
	// ReasonCanceled: the caller's context was canceled between rounds.
	ReasonCanceled TerminationReason = "canceled"
)

// Cycle lists the pairs of one executed exchange cycle in pointer order,
// rotated so the smallest PairID comes first. Each pair receives the donor
// kidney of the pair that follows it, wrapping at the end.
type Cycle []PairID

// ChainRecord describes the chain a round selected. Participants follow
// pointer order; the last one points at the waitlist. Criterion is the value
// of the rule's selection criterion for this chain: the length for rules a,
// b and c, the priority rank for d and e, 1 or 0 for f depending on whether
// a type O waitlist-bound donor qualified, and the chain score for g.
type ChainRecord struct {
	Participants  []PairID `json:"participants"`
	WaitlistDonor PairID   `json:"waitlist_donor"` // pair whose donor kidney goes to the waitlist
	Waitlisted    PairID   `json:"waitlisted"`     // pair whose patient takes waitlist priority
	Kept          bool     `json:"kept"`
	Criterion     float64  `json:"criterion"`
}

// Snapshot captures one round. The pair sets reflect the pool after the
// round's executions; Pointers is the graph the round was decided on, with
// Waitlist as target marking the sink.
type Snapshot struct {
	Round    int               `json:"round"`
	State    State             `json:"state"`
	Reason   TerminationReason `json:"reason,omitempty"`
	Active   []PairID          `json:"active"`
	Matched  []PairID          `json:"matched"`
	Donated  []PairID          `json:"donated"`
	Pointers map[PairID]PairID `json:"pointers,omitempty"`
	Cycles   []Cycle           `json:"cycles,omitempty"`
	Chain    *ChainRecord      `json:"chain,omitempty"`
}

// Report summarizes a finished run.
type Report struct {
	RunID         string            `json:"run_id"`
	Rule          Rule              `json:"rule"`
	Rounds        int               `json:"rounds"`
	Reason        TerminationReason `json:"reason"`
	MatchedCycles int               `json:"matched_cycles"` // pairs matched through cycles
	MatchedChains int               `json:"matched_chains"` // pairs matched through chains
	Waitlisted    int               `json:"waitlisted"`
	Unmatched     int               `json:"unmatched"`
}
