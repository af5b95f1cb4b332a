// /internal/storage/storage.go
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/keshon/datastore"
)

const karmaKey = "karma"

// KarmaEntry is one subject's karma count, used for leaderboard output.
type KarmaEntry struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

type karmaRecord struct {
	Counts map[string]int `json:"counts"`
}

// Storage persists karma counters in a JSON datastore. All read-modify-write
// sequences hold s.mu, so concurrent increments on one subject never lose
// updates.
type Storage struct {
	ds *datastore.DataStore
	mu sync.Mutex
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// getOrCreateKarmaRecord loads the karma record, creating an empty one if
// the key has never been written. Callers must hold s.mu.
func (s *Storage) getOrCreateKarmaRecord() (*karmaRecord, error) {
	data, exists := s.ds.Get(karmaKey)
	if !exists {
		record := &karmaRecord{Counts: map[string]int{}}
		s.ds.Add(karmaKey, record)
		return record, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	var record karmaRecord
	err = json.Unmarshal(jsonData, &record)
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling to *karmaRecord: %w", err)
	}

	if record.Counts == nil {
		record.Counts = map[string]int{}
	}

	return &record, nil
}

// Karma returns the current karma count for a subject. Unknown subjects
// have zero karma.
func (s *Storage) Karma(subject string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateKarmaRecord()
	if err != nil {
		return 0, err
	}

	return record.Counts[subject], nil
}

// TopKarma returns up to n subjects sorted by karma, highest first.
// Ties are broken by subject name so the order is stable.
func (s *Storage) TopKarma(n int) ([]KarmaEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateKarmaRecord()
	if err != nil {
		return nil, err
	}

	entries := make([]KarmaEntry, 0, len(record.Counts))
	for subject, count := range record.Counts {
		entries = append(entries, KarmaEntry{Subject: subject, Count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Subject < entries[j].Subject
	})

	if len(entries) > n {
		entries = entries[:n]
	}

	return entries, nil
}

// IncrementKarma adds one karma to a subject and returns the new total.
func (s *Storage) IncrementKarma(subject string) (int, error) {
	return s.adjustKarma(subject, 1)
}

// DecrementKarma removes one karma from a subject and returns the new total.
func (s *Storage) DecrementKarma(subject string) (int, error) {
	return s.adjustKarma(subject, -1)
}

func (s *Storage) adjustKarma(subject string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateKarmaRecord()
	if err != nil {
		return 0, err
	}

	record.Counts[subject] += delta
	total := record.Counts[subject]
	s.ds.Add(karmaKey, record)
	return total, nil
}
