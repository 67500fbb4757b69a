// Package pathfmt implements the path template registry used by the
// distribution assembler. Staging operations are written against
// symbolic templates like "{DIST}/share/radare2/{R2_VERSION}/magic"
// instead of repeating absolute paths; a Registry maps the symbolic
// names to concrete path fragments and Expand substitutes them.
//
// The registry is an explicit value passed into each staging call.
// Keeping it out of package-level state means a test (or a second
// assembly pass) can build its own mapping without hidden coupling.
package pathfmt

import (
	"fmt"
	"regexp"
)

// namePattern matches a {NAME} placeholder. Names are upper-case
// identifiers such as ROOT, DIST, BUILDDIR or R2_VERSION.
var namePattern = regexp.MustCompile(`\{([A-Z][A-Z0-9_]*)\}`)

// MissingKeyError is returned by Expand when a template references a
// name that was never registered. Referencing an unknown name is a
// programming error in the assembly tables, so callers treat it as
// fatal.
type MissingKeyError struct {
	// Name is the unregistered placeholder name.
	Name string

	// Template is the template being expanded, included for
	// diagnostics.
	Template string
}

// Error satisfies the error interface.
func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("template %q references unregistered name %q", e.Template, e.Name)
}

// Registry maps symbolic names to path fragments. Entries are only
// ever inserted or overwritten, never removed; a Registry lives for
// the duration of one assembly pass.
type Registry map[string]string

// New returns an empty Registry.
func New() Registry {
	return make(Registry)
}

// Set inserts or overwrites the value for a name.
func (r Registry) Set(name, value string) {
	r[name] = value
}

// Expand substitutes every {NAME} occurrence in the template with the
// registered value. Every referenced name must be registered; the
// first missing one aborts the expansion with a MissingKeyError.
func (r Registry) Expand(template string) (string, error) {
	var missing *MissingKeyError

	expanded := namePattern.ReplaceAllStringFunc(template, func(match string) string {
		// match includes the braces; strip them to get the name.
		name := match[1 : len(match)-1]
		value, ok := r[name]
		if !ok {
			if missing == nil {
				missing = &MissingKeyError{Name: name, Template: template}
			}
			return match
		}
		return value
	})

	if missing != nil {
		return "", missing
	}
	return expanded, nil
}
