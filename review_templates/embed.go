// Package reviewtemplates ships the canonical review checklists inside the binary.
package reviewtemplates

import (
	"embed"
	"io/fs"
)

//go:embed *.md
var templatesFS embed.FS

// FS returns a filesystem holding general.md, security.md and performance.md at its root.
func FS() fs.FS {
	return templatesFS
}
