// Package web embeds the static review UI served by the serve command.
package web

import "embed"

//go:embed static
var Assets embed.FS
