// Package policy provides the data-driven exit generation policy and
// utilities for loading it.
package policy

import "embed"

// dataFS embeds the default policy JSON at build time.
//
//go:embed *.json
var dataFS embed.FS
