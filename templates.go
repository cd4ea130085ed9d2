package cassie

import (
	"io/fs"

	"github.com/goliatone/go-cassie/pkg/templates"
)

// EmbeddedTemplates exposes the bundled job script and Xanthos templates so
// callers can copy or extend them without importing the templates package.
func EmbeddedTemplates() fs.FS {
	return templates.FS()
}
