// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package histoscore

import "strings"

// HLA loci tracked by the simulator.
const (
	LocusA  = "A"
	LocusB  = "B"
	LocusDR = "DR"
)

var (
	universeA = []string{
		"A1", "A2", "A3", "A11", "A23", "A24",
		"A26", "A29", "A30", "A31", "A32", "A68",
	}
	universeB = []string{
		"B7", "B8", "B13", "B15", "B27", "B35",
		"B40", "B44", "B51", "B57", "B60", "B62",
	}
	universeDR = []string{
		"DR1", "DR3", "DR4", "DR7", "DR11",
		"DR13", "DR15", "DR17", "DR51", "DR52",
	}
)

var antigenLocus map[string]string

func init() {
	loci := map[string][]string{
		LocusA:  universeA,
		LocusB:  universeB,
		LocusDR: universeDR,
	}

	antigenLocus = make(map[string]string)
	for locus, antigens := range loci {
		for _, a := range antigens {
			if _, ok := antigenLocus[a]; ok {
				panic("repeated antigen")
			}
			antigenLocus[a] = locus
		}
	}
}

// NormalizeAntigen maps free-form antigen names ("a2", " dr51 ") to their
// canonical upper-case form.
func NormalizeAntigen(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// NormalizeAntigens maps a whole list through NormalizeAntigen.
func NormalizeAntigens(names []string) []string {
	if names == nil {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = NormalizeAntigen(n)
	}
	return out
}

// LocusOf returns the locus a canonical antigen name belongs to.
func LocusOf(antigen string) (locus string, ok bool) {
	locus, ok = antigenLocus[antigen]
	return
}

// KnownAntigen reports whether the canonical antigen name is in the
// reference universe.
func KnownAntigen(antigen string) bool {
	_, ok := antigenLocus[antigen]
	return ok
}
