// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package profile

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/relabs-tech/ratonaut/internal/kv"
)

// Key is the storage key of the persisted profile record.
const Key = "ratonaut_profile"

// Store loads and saves the profile record.
type Store struct {
	kv kv.Store
}

func NewStore(s kv.Store) *Store {
	return &Store{kv: s}
}

// Load returns the persisted profile. A missing, unreadable or malformed
// record yields Default; Load never fails.
func (s *Store) Load() Profile {
	raw, ok, err := s.kv.Get(Key)
	if err != nil {
		log.Printf("profile: load error, using defaults: %v", err)
		return Default()
	}
	if !ok {
		return Default()
	}

	p := Default()
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Printf("profile: malformed record, using defaults: %v", err)
		return Default()
	}
	if err := p.Validate(); err != nil {
		log.Printf("profile: invalid record, using defaults: %v", err)
		return Default()
	}
	return p
}

// Save validates p and overwrites the persisted record.
func (s *Store) Save(p Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("profile: encode: %w", err)
	}
	if err := s.kv.Set(Key, string(raw)); err != nil {
		return fmt.Errorf("profile: save: %w", err)
	}
	return nil
}
