package condition

import "fmt"

// MalformedTreeError reports a tree that cannot be compiled: a raw leaf
// survived to render time, or an internal node has no children.
// These are programmer errors; no partial SQL is ever emitted.
type MalformedTreeError struct {
	Reason string
}

func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed condition tree: %s", e.Reason)
}

// FieldResolutionError reports a field path that could not be resolved
// against the host schema: unknown field, or a non-relational field used
// as a relation hop.
type FieldResolutionError struct {
	Path   string
	Reason string
}

func (e *FieldResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve field path %q: %s", e.Path, e.Reason)
}

// UnsupportedLookupError reports a trailing lookup token the resolver does
// not recognize.
type UnsupportedLookupError struct {
	Lookup string
	Path   string
}

func (e *UnsupportedLookupError) Error() string {
	return fmt.Sprintf("unsupported lookup %q in field path %q", e.Lookup, e.Path)
}
