// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ttcc

import "github.com/Alireza-Kazemifard/kidney-exchange-simulator/histoscore"

// ExamplePool returns the twelve-pair pool of Roth, Sönmez and Ünver
// ("Kidney Exchange", 2004) with its published preference lists. Every
// participant is 40 with an empty HLA profile; the preferences stand in for
// clinical scoring, so run it with the returned FixedPreferences as the
// Ranker.
func ExamplePool() (*Pool, FixedPreferences) {
	patientBloods := []histoscore.BloodType{
		histoscore.BloodAB, histoscore.BloodO, histoscore.BloodA,
		histoscore.BloodB, histoscore.BloodA, histoscore.BloodO,
		histoscore.BloodB, histoscore.BloodA, histoscore.BloodO,
		histoscore.BloodAB, histoscore.BloodO, histoscore.BloodB,
	}
	donorBloods := []histoscore.BloodType{
		histoscore.BloodB, histoscore.BloodA, histoscore.BloodO,
		histoscore.BloodA, histoscore.BloodO, histoscore.BloodO,
		histoscore.BloodA, histoscore.BloodO, histoscore.BloodB,
		histoscore.BloodB, histoscore.BloodO, histoscore.BloodA,
	}

	pool := NewPool()
	for i := range patientBloods {
		_, err := pool.Add(
			Patient{Blood: patientBloods[i], Age: 40},
			Donor{Blood: donorBloods[i], Age: 40},
		)
		if err != nil {
			panic(err)
		}
	}

	prefs := FixedPreferences{
		1:  {9, 10},
		2:  {11, 3, 5, 6},
		3:  {2, 4, 5, 6, 7, 8, 11, 12},
		4:  {5, 9, 1, 8, 10, 3, 6},
		5:  {3, 7, 11, 4},
		6:  {3, 5, 8},
		7:  {6, 11, 1, 3, 9, 10},
		8:  {6, 4, 11, 2, 3},
		9:  {3, 11},
		10: {11, 1, 4, 5, 6, 7, 2},
		11: {3, 6, 5},
		12: {11, 3, 5, 9, 8, 10},
	}
	return pool, prefs
}
