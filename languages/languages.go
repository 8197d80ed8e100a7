// Package languages embeds the per-language rule catalogs used by the
// dangerous-call scanner. Each YAML file defines the rule IDs, severities,
// and messages for one target language, making it straightforward to add
// support for a new language by dropping in a new *.yaml file and
// registering the lang key in internal/danger.
package languages

import "embed"

// FS is an embed.FS containing every *.yaml file in this directory.
//
//go:embed *.yaml
var FS embed.FS
