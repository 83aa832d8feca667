// Package rulepack embeds the YAML definitions for the built-in data rules.
package rulepack

import "embed"

//go:embed rules/*.yaml
var FS embed.FS
