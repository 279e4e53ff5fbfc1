// Package appfs bundles the HTML templates, email templates and page contents into the binaries.
package appfs

import "embed"

//go:embed all:templates content
var FS embed.FS
