package paths

import (
	"path/filepath"
	"strings"

	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

const (
	LockSuffix   = ".lock"
	ReportSuffix = ".assignments.yaml"
)

// Paths holds every location touched by one run against a document.
type Paths struct {
	Document string
	Output   string
	// LockPath is empty when the output is not on the local filesystem.
	LockPath string
}

// New derives run locations for document. An empty output means the
// document is rewritten in place. Relative local paths are made absolute.
func New(document, output string) Paths {
	document = Resolve(document)
	if output == "" {
		output = document
	}
	output = Resolve(output)
	return Paths{
		Document: document,
		Output:   output,
		LockPath: lockPathFor(output),
	}
}

// Resolve makes a plain local path absolute and leaves URLs untouched.
func Resolve(location string) string {
	if location == "" || strings.Contains(location, "://") {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}

// IsLocal reports whether location resolves to the local filesystem.
func IsLocal(location string) bool {
	return url.Scheme(location, file.Scheme) == file.Scheme
}

// DefaultReport returns the report location next to the output document.
func (p Paths) DefaultReport() string {
	return strings.TrimSuffix(p.Output, filepath.Ext(p.Output)) + ReportSuffix
}

func lockPathFor(location string) string {
	if !IsLocal(location) {
		return ""
	}
	local := location
	if strings.Contains(location, "://") {
		local = url.Path(location)
	}
	return filepath.Join(filepath.Dir(local), "."+filepath.Base(local)+LockSuffix)
}
