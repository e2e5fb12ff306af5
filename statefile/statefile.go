// Copyright 2025 Alireza Kazemifard. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package statefile reads and writes exchange pools as JSON files.
package statefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	ttcc "github.com/Alireza-Kazemifard/kidney-exchange-simulator"
	"github.com/Alireza-Kazemifard/kidney-exchange-simulator/histoscore"
)

// Version of the on-disk format this package writes.
const Version = 1

// File is the on-disk pool format. A file saved mid-run carries pair
// statuses and received-from references; a fresh registration list carries
// neither.
type File struct {
	Version int      `json:"version"`
	Rule    string   `json:"rule,omitempty"`
	Pairs   []Record `json:"pairs"`
}

type Record struct {
	ID           int    `json:"id,omitempty"`
	Patient      Person `json:"patient"`
	Donor        Person `json:"donor"`
	Status       string `json:"status,omitempty"`
	ReceivedFrom int    `json:"received_from,omitempty"`
}

// Person carries one side of a pair. PRA and Unacceptable are meaningful on
// the patient side only.
type Person struct {
	Blood        string   `json:"blood"`
	Age          int      `json:"age,omitempty"`
	A            []string `json:"hla_a,omitempty"`
	B            []string `json:"hla_b,omitempty"`
	DR           []string `json:"hla_dr,omitempty"`
	PRA          int      `json:"pra,omitempty"`
	Unacceptable []string `json:"unacceptable,omitempty"`
}

// Save writes the pool to path with its statuses, so an interrupted run can
// be picked up again under the same rule.
func Save(path string, pool *ttcc.Pool, rule ttcc.Rule) error {
	f := File{
		Version: Version,
		Rule:    string(rule),
		Pairs:   genRecords(pool.Pairs()),
	}

	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "   ")
	if err := encoder.Encode(f); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Load reads and decodes path without building a pool.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File

	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&f); err != nil {
		return nil, err
	}
	if f.Version > Version {
		return nil, fmt.Errorf("unsupported state file version %d", f.Version)
	}

	return &f, nil
}

// Resumed reports whether any record carries run state.
func (f *File) Resumed() bool {
	for _, r := range f.Pairs {
		if r.Status != "" || r.ReceivedFrom != 0 {
			return true
		}
	}
	return false
}

// BuildPool turns a decoded file into a pool. Fresh registration lists are
// registered record by record, skipping malformed ones and reporting them
// in rejected so the rest of the pool stays usable. Resumed files are
// restored strictly and fail as a whole on any bad record.
func (f *File) BuildPool() (pool *ttcc.Pool, rejected []ttcc.PairError, err error) {
	pool = ttcc.NewPool()

	if f.Resumed() {
		if err := pool.Restore(genPairs(f.Pairs)); err != nil {
			return nil, nil, err
		}
		return pool, nil, nil
	}

	for i, r := range f.Pairs {
		if _, err := pool.Add(genPatient(r.Patient), genDonor(r.Donor)); err != nil {
			rejected = append(rejected, ttcc.PairError{Index: i, Err: err})
		}
	}
	return pool, rejected, nil
}

func genRecords(pairs []*ttcc.Pair) []Record {
	records := make([]Record, len(pairs))

	for i, p := range pairs {
		records[i] = Record{
			ID: int(p.ID),
			Patient: Person{
				Blood:        string(p.Patient.Blood),
				Age:          p.Patient.Age,
				A:            p.Patient.HLA.A,
				B:            p.Patient.HLA.B,
				DR:           p.Patient.HLA.DR,
				PRA:          p.Patient.PRA,
				Unacceptable: p.Patient.Unacceptable,
			},
			Donor: Person{
				Blood: string(p.Donor.Blood),
				Age:   p.Donor.Age,
				A:     p.Donor.HLA.A,
				B:     p.Donor.HLA.B,
				DR:    p.Donor.HLA.DR,
			},
			Status:       string(p.Status),
			ReceivedFrom: int(p.ReceivedFrom),
		}
	}

	return records
}

func genPairs(records []Record) []ttcc.Pair {
	pairs := make([]ttcc.Pair, len(records))

	for i, r := range records {
		pairs[i] = ttcc.Pair{
			ID:           ttcc.PairID(r.ID),
			Patient:      genPatient(r.Patient),
			Donor:        genDonor(r.Donor),
			Status:       ttcc.Status(r.Status),
			ReceivedFrom: ttcc.PairID(r.ReceivedFrom),
		}
	}

	return pairs
}

func genPatient(p Person) ttcc.Patient {
	return ttcc.Patient{
		Blood:        histoscore.BloodType(p.Blood),
		Age:          p.Age,
		HLA:          histoscore.Profile{A: p.A, B: p.B, DR: p.DR},
		PRA:          p.PRA,
		Unacceptable: p.Unacceptable,
	}
}

func genDonor(p Person) ttcc.Donor {
	return ttcc.Donor{
		Blood: histoscore.BloodType(p.Blood),
		Age:   p.Age,
		HLA:   histoscore.Profile{A: p.A, B: p.B, DR: p.DR},
	}
}
