// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/relabs-tech/ratonaut/internal/config"
	"github.com/relabs-tech/ratonaut/internal/kv"
	"github.com/relabs-tech/ratonaut/internal/profile"
)

const profileUsage = `usage: profile <command>
  show
  name <name>
  species <species>
  age <months>
  weight <grams>
  goal <pps|speed> <value>
  toggle <haptics|audio>`

// RunProfile edits the persisted profile from the command line.
func RunProfile(args []string) error {
	cfg := config.Get()
	return editProfile(profile.NewStore(kv.NewFileStore(cfg.ProfileStorePath)), args, os.Stdout)
}

// editProfile applies one command to the stored profile and prints the
// result. Any command other than show saves.
func editProfile(store *profile.Store, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%s", profileUsage)
	}

	p := store.Load()
	var err error
	switch cmd, rest := args[0], args[1:]; {
	case cmd == "show" && len(rest) == 0:
	case cmd == "name" && len(rest) == 1:
		p.Name = rest[0]
	case cmd == "species" && len(rest) == 1:
		p.Species = rest[0]
	case cmd == "age" && len(rest) == 1:
		p.Age, err = strconv.Atoi(rest[0])
	case cmd == "weight" && len(rest) == 1:
		p.Weight, err = strconv.Atoi(rest[0])
	case cmd == "goal" && len(rest) == 2:
		err = p.SetGoal(rest[0], rest[1])
	case cmd == "toggle" && len(rest) == 1:
		err = p.TogglePreference(rest[0])
	default:
		return fmt.Errorf("%s", profileUsage)
	}
	if err != nil {
		return fmt.Errorf("profile %s: %w", args[0], err)
	}

	if args[0] != "show" {
		if err := store.Save(p); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
