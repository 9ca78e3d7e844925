// Package templates embeds the default code templates.
package templates

import "embed"

//go:embed go
var FS embed.FS
