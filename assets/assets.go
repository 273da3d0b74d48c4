// Package assets embeds files shipped with the binaries.
package assets

import "embed"

//go:embed migrations
var FS embed.FS
