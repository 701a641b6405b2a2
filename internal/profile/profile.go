// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package profile

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Species lists the subjects the app knows how to coach.
var Species = []string{
	"Syrian Hamster",
	"Dwarf Campbell",
	"Roborovski",
	"Winter White",
	"Chinese Hamster",
	"Mouse",
	"Gerbil",
}

// Goals are the thresholds the feedback notifier compares samples against.
type Goals struct {
	PPS   float64 `json:"pps"`   // target paws per second
	Speed float64 `json:"speed"` // target speed, m/s
}

// Preferences toggle the sensory outputs.
type Preferences struct {
	Haptics bool `json:"haptics"`
	Audio   bool `json:"audio"`
}

// Profile describes the subject on the wheel.
type Profile struct {
	Name        string      `json:"name"`
	Species     string      `json:"species"`
	Age         int         `json:"age"`    // months
	Weight      int         `json:"weight"` // grams
	Goals       Goals       `json:"goals"`
	Preferences Preferences `json:"preferences"`
}

// Default returns the profile used until one has been saved.
func Default() Profile {
	return Profile{
		Name:        "Nibbles",
		Species:     "Syrian Hamster",
		Age:         6,
		Weight:      120,
		Goals:       Goals{PPS: 8.5, Speed: 1.2},
		Preferences: Preferences{Haptics: true, Audio: true},
	}
}

// Validate reports the first field that cannot be stored.
func (p Profile) Validate() error {
	if !slices.Contains(Species, p.Species) {
		return fmt.Errorf("unknown species %q", p.Species)
	}
	if p.Age < 0 {
		return fmt.Errorf("age must be non-negative, got %d", p.Age)
	}
	if p.Weight < 0 {
		return fmt.Errorf("weight must be non-negative, got %d", p.Weight)
	}
	if !validGoal(p.Goals.PPS) {
		return fmt.Errorf("goals.pps must be a non-negative number, got %v", p.Goals.PPS)
	}
	if !validGoal(p.Goals.Speed) {
		return fmt.Errorf("goals.speed must be a non-negative number, got %v", p.Goals.Speed)
	}
	return nil
}

func validGoal(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// SetGoal sets a goal from form input. Unparseable input sets the goal to 0.
func (p *Profile) SetGoal(key, raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !validGoal(v) {
		v = 0
	}
	switch key {
	case "pps":
		p.Goals.PPS = v
	case "speed":
		p.Goals.Speed = v
	default:
		return fmt.Errorf("unknown goal %q", key)
	}
	return nil
}

// TogglePreference flips the named preference.
func (p *Profile) TogglePreference(key string) error {
	switch key {
	case "haptics":
		p.Preferences.Haptics = !p.Preferences.Haptics
	case "audio":
		p.Preferences.Audio = !p.Preferences.Audio
	default:
		return fmt.Errorf("unknown preference %q", key)
	}
	return nil
}
