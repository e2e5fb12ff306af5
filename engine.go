// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ttcc

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/histoscore"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/log"
)

// DefaultHighPRA is the PRA percentage from which a patient counts as
// highly sensitized.
const DefaultHighPRA = 80

// Options tune a run. Nil pointer fields fall back to their defaults.
type Options struct {
	// Ranker orders candidate donors; nil selects HistoRanker over
	// Weights.
	Ranker Ranker

	// Weights for the default ranker; nil means histoscore.DefaultWeights.
	Weights *histoscore.Weights

	// HighPRA overrides DefaultHighPRA.
	HighPRA *int

	// MaxCycleLen and MaxChainLen cap executable cycle and selectable
	// chain sizes in pairs; 0 lifts the cap.
	MaxCycleLen *int
	MaxChainLen *int

	// Priority ranks pairs for rules d, e and f, best first; nil means
	// registration order.
	Priority []PairID

	// Observer receives every emitted snapshot.
	Observer func(Snapshot)

	// Logger for round traces; nil discards them.
	Logger log.Logger
}

// Engine runs the mechanism round by round over one pool. It is not safe
// for concurrent use, and the pool must not be modified elsewhere during a
// run.
type Engine struct {
	pool *Pool
	rule Rule
	spec ruleSpec

	rank     Ranker
	highPRA  int
	maxCycle int
	maxChain int
	prio     map[PairID]int
	observer func(Snapshot)
	logger   log.Logger

	runID  string
	state  State
	round  int
	reason TerminationReason

	// last kept chain, for stall detection under keep rules
	lastChain []PairID

	matchedCycles int
	matchedChains int
	waitlisted    int
}

// NewEngine validates the rule and options and prepares a run over pool.
// opts may be nil.
func NewEngine(pool *Pool, rule Rule, opts *Options) (*Engine, error) {
	spec, ok := rules[rule]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRule, rule)
	}
	if opts == nil {
		opts = &Options{}
	}

	e := &Engine{
		pool:     pool,
		rule:     rule,
		spec:     spec,
		rank:     opts.Ranker,
		highPRA:  DefaultHighPRA,
		observer: opts.Observer,
		logger:   opts.Logger,
		runID:    uuid.NewString(),
		state:    StateIdle,
	}

	if e.rank == nil {
		w := histoscore.DefaultWeights()
		if opts.Weights != nil {
			w = *opts.Weights
		}
		e.rank = HistoRanker(w)
	}
	if opts.HighPRA != nil {
		e.highPRA = *opts.HighPRA
	}
	if opts.MaxCycleLen != nil {
		e.maxCycle = *opts.MaxCycleLen
	}
	if opts.MaxChainLen != nil {
		e.maxChain = *opts.MaxChainLen
	}
	if e.logger == nil {
		e.logger = log.Nop
	}

	if opts.Priority != nil {
		e.prio = make(map[PairID]int, len(opts.Priority))
		for i, id := range opts.Priority {
			if pool.Pair(id) == nil {
				return nil, fmt.Errorf("priority list: unknown pair %d", id)
			}
			if _, dup := e.prio[id]; dup {
				return nil, fmt.Errorf("priority list: pair %d listed twice", id)
			}
			e.prio[id] = i + 1
		}
	} else {
		e.prio = make(map[PairID]int, pool.Len())
		for _, p := range pool.Pairs() {
			e.prio[p.ID] = int(p.ID)
		}
	}

	return e, nil
}

func (e *Engine) RunID() string {
	return e.runID
}

func (e *Engine) State() State {
	return e.state
}

// Round executes one round and returns its snapshot plus whether the run
// can continue. Once terminal, further calls return the terminal snapshot
// again without emitting or mutating anything.
func (e *Engine) Round() (Snapshot, bool) {
	if e.state == StateTerminal {
		return e.snapshot(nil, nil, nil), false
	}

	e.round++
	e.state = StateBuildingGraph

	if len(e.pool.Active()) == 0 {
		return e.terminate(nil, ReasonPoolExhausted), false
	}

	g := buildPointerGraph(e.pool, e.rank)
	e.logger.Debugf("round %d: %d active pairs", e.round, len(g.ids))

	if exec := e.executableCycles(g); len(exec) > 0 {
		e.executeCycles(exec)
		e.lastChain = nil
		e.state = StateCyclesFound
		e.logger.Debugf("round %d: executed %d cycle(s)", e.round, len(exec))
		return e.emit(e.snapshot(g, exec, nil)), true
	}

	cands := e.chainCandidates(g)
	if len(cands) == 0 {
		return e.terminate(g, ReasonNoCandidates), false
	}
	idx, criterion, ok := e.spec.pick(cands)
	if !ok {
		return e.terminate(g, ReasonNoCandidates), false
	}
	chosen := cands[idx]

	if e.spec.keep && samePath(chosen.participants, e.lastChain) {
		return e.terminate(g, ReasonStalled), false
	}

	rec := &ChainRecord{
		Participants:  chosen.participants,
		WaitlistDonor: chosen.participants[0],
		Waitlisted:    chosen.participants[len(chosen.participants)-1],
		Kept:          e.spec.keep,
		Criterion:     criterion,
	}
	if e.spec.keep {
		e.lastChain = chosen.participants
	} else {
		e.executeChain(chosen.participants)
	}
	e.state = StateChainFound
	e.logger.Debugf("round %d: chain %v kept=%v", e.round, chosen.participants, e.spec.keep)
	return e.emit(e.snapshot(g, nil, rec)), true
}

// Run drives rounds until the engine terminates. Cancellation is honored
// between rounds only; a canceled run reports ReasonCanceled and returns
// the context's error.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	for e.state != StateTerminal {
		if err := ctx.Err(); err != nil {
			e.state = StateTerminal
			e.reason = ReasonCanceled
			e.logger.Infof("run %s canceled after %d round(s)", e.runID, e.round)
			return e.Report(), err
		}
		e.Round()
	}
	return e.Report(), nil
}

// Report is valid at any point of a run; counters reflect executions so
// far.
func (e *Engine) Report() Report {
	return Report{
		RunID:         e.runID,
		Rule:          e.rule,
		Rounds:        e.round,
		Reason:        e.reason,
		MatchedCycles: e.matchedCycles,
		MatchedChains: e.matchedChains,
		Waitlisted:    e.waitlisted,
		Unmatched:     len(e.pool.Active()),
	}
}

func (e *Engine) executableCycles(g *pointerGraph) []Cycle {
	all := g.cycles()
	if e.maxCycle <= 0 {
		return all
	}
	var exec []Cycle
	for _, c := range all {
		if len(c) <= e.maxCycle {
			exec = append(exec, c)
		}
	}
	return exec
}

func (e *Engine) executeCycles(cycles []Cycle) {
	for _, cyc := range cycles {
		for i, id := range cyc {
			p := e.pool.Pair(id)
			p.Status = StatusMatched
			p.ReceivedFrom = cyc[(i+1)%len(cyc)]
			e.matchedCycles++
		}
	}
}

func (e *Engine) executeChain(path []PairID) {
	for i := 0; i < len(path)-1; i++ {
		p := e.pool.Pair(path[i])
		p.Status = StatusMatched
		p.ReceivedFrom = path[i+1]
		e.matchedChains++
	}
	tail := e.pool.Pair(path[len(path)-1])
	tail.Status = StatusDonated
	e.waitlisted++
}

func (e *Engine) chainCandidates(g *pointerGraph) []chainCandidate {
	var cands []chainCandidate
	for _, path := range g.chains() {
		if e.maxChain > 0 && len(path) > e.maxChain {
			continue
		}
		c := chainCandidate{
			participants: path,
			length:       len(path),
			priorityRank: unranked,
		}
		c.headDonorO = e.pool.Pair(path[0]).Donor.Blood == histoscore.BloodO
		for _, id := range path {
			p := e.pool.Pair(id)
			if p.Patient.Blood == histoscore.BloodO {
				c.oPatients++
			}
			if p.Patient.PRA >= e.highPRA {
				c.highPRA++
			}
			if r, ok := e.prio[id]; ok && r < c.priorityRank {
				c.priorityRank = r
			}
		}
		cands = append(cands, c)
	}
	return cands
}

func (e *Engine) terminate(g *pointerGraph, reason TerminationReason) Snapshot {
	e.state = StateTerminal
	e.reason = reason
	e.logger.Infof("run %s terminated: %s after %d round(s)", e.runID, reason, e.round)
	return e.emit(e.snapshot(g, nil, nil))
}

func (e *Engine) emit(s Snapshot) Snapshot {
	if e.observer != nil {
		e.observer(s)
	}
	return s
}

func (e *Engine) snapshot(g *pointerGraph, cycles []Cycle, chain *ChainRecord) Snapshot {
	snap := Snapshot{
		Round:  e.round,
		State:  e.state,
		Reason: e.reason,
		Cycles: cycles,
		Chain:  chain,
	}
	for _, p := range e.pool.Pairs() {
		switch p.Status {
		case StatusActive:
			snap.Active = append(snap.Active, p.ID)
		case StatusMatched:
			snap.Matched = append(snap.Matched, p.ID)
		case StatusDonated:
			snap.Donated = append(snap.Donated, p.ID)
		}
	}
	if g != nil {
		snap.Pointers = g.pointerMap()
	}
	return snap
}

func samePath(a, b []PairID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
