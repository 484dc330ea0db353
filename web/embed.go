// Package web holds the embedded single-page frontend served by the API.
package web

import "embed"

//go:embed index.html static
var FS embed.FS
