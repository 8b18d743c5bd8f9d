package config

import (
	_ "embed"
)

// DefaultConfigYAML is the embedded default configuration, used when no
// external config file is present.
//
//go:embed default.yaml
var DefaultConfigYAML []byte
