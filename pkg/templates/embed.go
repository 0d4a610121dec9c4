package templates

import (
	"embed"
	"io/fs"
)

// DefaultDocument is the name of the bundled template document inside
// DefaultTemplatesFS.
const DefaultDocument = "default.html"

//go:embed defaults/*.html
var embeddedDefaults embed.FS

// DefaultTemplatesFS returns the bundled template documents. Pair it with
// WithFileSystem and DefaultSource to load the built-in input types.
func DefaultTemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedDefaults, "defaults")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}

// DefaultSource points at the bundled template document.
func DefaultSource() Source {
	return SourceFromFS(DefaultDocument)
}
