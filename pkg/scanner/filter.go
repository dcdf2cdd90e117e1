package scanner

import (
	"path/filepath"
	"strings"
)

// ExtKey derives the ExtensionKey for a filename: the lowercased substring
// after the last dot of the base name. No dot, or a trailing dot, yields
// NoExtension. Derived once per filename.
func ExtKey(name string) ExtensionKey {
	base := filepath.Base(name)
	idx := strings.LastIndexByte(base, '.')
	if idx < 0 || idx == len(base)-1 {
		return NoExtension
	}
	return ExtensionKey(strings.ToLower(base[idx+1:]))
}

// ExclusionSet decides whether a directory must be pruned from traversal.
// Matching is an exact base-name comparison, applied at any depth.
type ExclusionSet map[string]struct{}

// NewExclusionSet builds an ExclusionSet from literal directory names.
// Empty entries are dropped; an empty set matches nothing.
func NewExclusionSet(names []string) ExclusionSet {
	set := make(ExclusionSet, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

// Match reports whether the entry with the given base name is excluded.
func (s ExclusionSet) Match(name string) bool {
	_, ok := s[name]
	return ok
}

// ExtensionFilter decides whether a file's extension is in the requested
// include-set. An empty filter accepts every file.
type ExtensionFilter struct {
	include map[ExtensionKey]struct{}
}

// NewExtensionFilter builds a filter from extension strings. Entries are
// normalized: trimmed, lowercased, leading dots stripped. Empty entries are
// dropped, so a filter built from only empty strings accepts everything.
func NewExtensionFilter(extensions []string) *ExtensionFilter {
	f := &ExtensionFilter{}
	for _, ext := range extensions {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if normalized == "" {
			continue
		}
		if f.include == nil {
			f.include = make(map[ExtensionKey]struct{})
		}
		f.include[ExtensionKey(normalized)] = struct{}{}
	}
	return f
}

// Match reports whether a file with the given key should be counted.
// NoExtension never matches a non-empty include-set.
func (f *ExtensionFilter) Match(key ExtensionKey) bool {
	if len(f.include) == 0 {
		return true
	}
	if key == NoExtension {
		return false
	}
	_, ok := f.include[key]
	return ok
}
