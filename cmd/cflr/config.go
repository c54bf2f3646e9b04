package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

// config is the optional .cflr.toml project file: defaults for the root
// nonterminal and end-lookahead set, so a repeated grammar.grm +
// cflr.toml pair doesn't need --root/--end on every invocation. This is
// ambient project configuration (§5 of SPEC_FULL.md), not part of the
// language-level grammar format of §6.1.
type config struct {
	Root         string   `toml:"root"`
	EndLookahead []string `toml:"end_lookahead"`
}

const defaultConfigPath = ".cflr.toml"

// loadConfig reads .cflr.toml from the current directory if present,
// returning a zero-value config (not an error) when the file is absent —
// the config file is an optional convenience, never a required input.
func loadConfig() (*config, error) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &config{}, nil
		}
		return nil, err
	}
	var cfg config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
