// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package histoscore scores donor kidneys against patients using ABO blood
// group compatibility, HLA crossmatch and a graft-survival utility model.
package histoscore

import (
	"fmt"
	"math"
	"strings"
)

type BloodType string

const (
	BloodO  BloodType = "O"
	BloodA  BloodType = "A"
	BloodB  BloodType = "B"
	BloodAB BloodType = "AB"
)

func (t BloodType) Valid() bool {
	switch t {
	case BloodO, BloodA, BloodB, BloodAB:
		return true
	}
	return false
}

// Normalized maps free-form blood type spellings ("o", " ab ") to their
// canonical form. Unknown spellings come back upper-cased, left for Valid
// to reject.
func (t BloodType) Normalized() BloodType {
	return BloodType(strings.ToUpper(strings.TrimSpace(string(t))))
}

// CanDonateTo rules:
//
//	O  -> O, A, B, AB
//	A  -> A, AB
//	B  -> B, AB
//	AB -> AB
func (t BloodType) CanDonateTo(recipient BloodType) bool {
	switch t {
	case BloodO:
		return recipient.Valid()
	case BloodA:
		return recipient == BloodA || recipient == BloodAB
	case BloodB:
		return recipient == BloodB || recipient == BloodAB
	case BloodAB:
		return recipient == BloodAB
	}
	return false
}

// Profile holds a person's HLA antigens, one list per locus.
type Profile struct {
	A  []string
	B  []string
	DR []string
}

func (p Profile) Empty() bool {
	return len(p.A) == 0 && len(p.B) == 0 && len(p.DR) == 0
}

// Normalized returns the profile with every antigen in canonical form.
func (p Profile) Normalized() Profile {
	return Profile{
		A:  NormalizeAntigens(p.A),
		B:  NormalizeAntigens(p.B),
		DR: NormalizeAntigens(p.DR),
	}
}

// Antigens returns the profile flattened into a single list.
func (p Profile) Antigens() []string {
	all := make([]string, 0, len(p.A)+len(p.B)+len(p.DR))
	all = append(all, p.A...)
	all = append(all, p.B...)
	all = append(all, p.DR...)
	return all
}

// Validate checks every antigen against the reference universe: it must be
// known, listed under its own locus, and listed once.
func (p Profile) Validate() error {
	loci := []struct {
		name     string
		antigens []string
	}{
		{LocusA, p.A},
		{LocusB, p.B},
		{LocusDR, p.DR},
	}

	for _, l := range loci {
		seen := make(map[string]bool, len(l.antigens))
		for _, a := range l.antigens {
			locus, ok := LocusOf(a)
			if !ok {
				return fmt.Errorf("unknown antigen %q", a)
			}
			if locus != l.name {
				return fmt.Errorf("antigen %q listed under locus %s", a, l.name)
			}
			if seen[a] {
				return fmt.Errorf("antigen %q listed twice", a)
			}
			seen[a] = true
		}
	}
	return nil
}

// CrossmatchPositive reports whether any donor antigen appears in the
// patient's unacceptable-antigen set. A positive crossmatch vetoes the
// transplant regardless of blood group.
func CrossmatchPositive(donor Profile, unacceptable []string) bool {
	if len(unacceptable) == 0 {
		return false
	}
	veto := make(map[string]bool, len(unacceptable))
	for _, a := range unacceptable {
		veto[a] = true
	}
	for _, a := range donor.Antigens() {
		if veto[a] {
			return true
		}
	}
	return false
}

// MismatchCount counts donor antigens the patient does not share, locus by
// locus. Antigens the donor lacks never count against the pairing.
func MismatchCount(patient, donor Profile) int {
	return missing(patient.A, donor.A) +
		missing(patient.B, donor.B) +
		missing(patient.DR, donor.DR)
}

func missing(patient, donor []string) int {
	if len(donor) == 0 {
		return 0
	}
	own := make(map[string]bool, len(patient))
	for _, a := range patient {
		own[a] = true
	}
	n := 0
	for _, a := range donor {
		if !own[a] {
			n++
		}
	}
	return n
}

// Weights parameterizes the graft-survival utility model. The zero value is
// not meaningful; start from DefaultWeights and override fields as needed.
type Weights struct {
	HLAPenalty       float64 // per mismatched antigen
	AgePenalty       float64 // per AgeScale years of donor-age distance
	SeniorHLAPenalty float64 // HLAPenalty for patients at SeniorAge and over
	SeniorAgePenalty float64 // AgePenalty for patients at SeniorAge and over
	SeniorAge        int
	IdealDonorAge    int
	AgeScale         float64
}

// DefaultWeights reproduces the rejection-odds model the simulator was
// calibrated with:
//
//	patient age < 60:  mismatch factor 1.06, donor-age factor 1.12
//	patient age >= 60: mismatch factor 1.05, donor-age factor 1.10
//
// Penalties are the natural logs of those factors. Donor age counts in
// decades from IdealDonorAge 0, so older donors always score lower.
func DefaultWeights() Weights {
	return Weights{
		HLAPenalty:       math.Log(1.06),
		AgePenalty:       math.Log(1.12),
		SeniorHLAPenalty: math.Log(1.05),
		SeniorAgePenalty: math.Log(1.10),
		SeniorAge:        60,
		IdealDonorAge:    0,
		AgeScale:         10,
	}
}

// Utility scores a donor kidney for a patient. Higher is better; the best
// reachable score is 0 (no mismatches, donor at the ideal age).
func (w Weights) Utility(patientAge, donorAge, mismatches int) float64 {
	hla, age := w.HLAPenalty, w.AgePenalty
	if patientAge >= w.SeniorAge {
		hla, age = w.SeniorHLAPenalty, w.SeniorAgePenalty
	}
	dist := math.Abs(float64(donorAge-w.IdealDonorAge)) / w.AgeScale
	return -hla*float64(mismatches) - age*dist
}
