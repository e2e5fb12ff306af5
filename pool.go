// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ttcc

import (
	"fmt"

	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/histoscore"
)

// Pool holds every registered pair, active or not. It is not safe for
// concurrent use.
type Pool struct {
	pairs []*Pair
}

func NewPool() *Pool {
	return &Pool{}
}

// PairError ties a rejected input record to its position (0-based) in the
// input.
type PairError struct {
	Index int
	Err   error
}

func (e PairError) Error() string {
	return fmt.Sprintf("pair record %d: %v", e.Index, e.Err)
}

func (e PairError) Unwrap() error {
	return e.Err
}

// Add validates and registers one pair as Active, returning its assigned ID.
// Rejected pairs do not consume an ID.
func (p *Pool) Add(patient Patient, donor Donor) (PairID, error) {
	patient, donor = normalize(patient, donor)
	if err := validate(&patient, &donor); err != nil {
		return 0, err
	}
	pr := &Pair{
		ID:      PairID(len(p.pairs) + 1),
		Patient: patient,
		Donor:   donor,
		Status:  StatusActive,
	}
	p.pairs = append(p.pairs, pr)
	return pr.ID, nil
}

// Restore replaces the pool contents with previously saved pairs, keeping
// their IDs, statuses and received-from references. Unlike Add it rejects
// the whole input on the first invalid record, since later records may
// reference the bad one.
func (p *Pool) Restore(pairs []Pair) error {
	restored := make([]*Pair, len(pairs))
	for i := range pairs {
		pr := pairs[i]
		if pr.ID != PairID(i+1) {
			return fmt.Errorf("pair %d: id %d out of sequence", i+1, pr.ID)
		}
		pr.Patient, pr.Donor = normalize(pr.Patient, pr.Donor)
		if err := validate(&pr.Patient, &pr.Donor); err != nil {
			return fmt.Errorf("pair %d: %w", pr.ID, err)
		}
		if pr.Status == "" {
			pr.Status = StatusActive
		}
		if !pr.Status.Valid() {
			return fmt.Errorf("pair %d: invalid status %q", pr.ID, pr.Status)
		}
		switch pr.Status {
		case StatusMatched:
			if pr.ReceivedFrom < 1 || int(pr.ReceivedFrom) > len(pairs) || pr.ReceivedFrom == pr.ID {
				return fmt.Errorf("pair %d: received from invalid pair %d", pr.ID, pr.ReceivedFrom)
			}
		default:
			if pr.ReceivedFrom != Waitlist {
				return fmt.Errorf("pair %d: received-from set on %s pair", pr.ID, pr.Status)
			}
		}
		restored[i] = &pr
	}
	p.pairs = restored
	return nil
}

func (p *Pool) Len() int {
	return len(p.pairs)
}

// Pair returns the registered pair or nil for unknown ids.
func (p *Pool) Pair(id PairID) *Pair {
	if id < 1 || int(id) > len(p.pairs) {
		return nil
	}
	return p.pairs[id-1]
}

// Pairs returns all registered pairs in ID order.
func (p *Pool) Pairs() []*Pair {
	return p.pairs
}

// Active returns the IDs of active pairs, ascending.
func (p *Pool) Active() []PairID {
	ids := make([]PairID, 0, len(p.pairs))
	for _, pr := range p.pairs {
		if pr.Status == StatusActive {
			ids = append(ids, pr.ID)
		}
	}
	return ids
}

func normalize(patient Patient, donor Donor) (Patient, Donor) {
	patient.Blood = patient.Blood.Normalized()
	patient.HLA = patient.HLA.Normalized()
	patient.Unacceptable = histoscore.NormalizeAntigens(patient.Unacceptable)
	donor.Blood = donor.Blood.Normalized()
	donor.HLA = donor.HLA.Normalized()
	return patient, donor
}

func validate(patient *Patient, donor *Donor) error {
	if !patient.Blood.Valid() {
		return fmt.Errorf("invalid patient blood type %q", patient.Blood)
	}
	if !donor.Blood.Valid() {
		return fmt.Errorf("invalid donor blood type %q", donor.Blood)
	}
	if patient.Age < 0 {
		return fmt.Errorf("negative patient age %d", patient.Age)
	}
	if donor.Age < 0 {
		return fmt.Errorf("negative donor age %d", donor.Age)
	}
	if patient.PRA < 0 || patient.PRA > 100 {
		return fmt.Errorf("PRA %d out of range [0, 100]", patient.PRA)
	}
	if err := patient.HLA.Validate(); err != nil {
		return fmt.Errorf("patient HLA: %w", err)
	}
	if err := donor.HLA.Validate(); err != nil {
		return fmt.Errorf("donor HLA: %w", err)
	}
	own := make(map[string]bool)
	for _, a := range patient.HLA.Antigens() {
		own[a] = true
	}
	for _, a := range patient.Unacceptable {
		if !histoscore.KnownAntigen(a) {
			return fmt.Errorf("unknown unacceptable antigen %q", a)
		}
		if own[a] {
			return fmt.Errorf("antigen %q is both held and unacceptable", a)
		}
	}
	return nil
}
