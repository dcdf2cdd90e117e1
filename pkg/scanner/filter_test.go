package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ExtensionKey
	}{
		{"simple extension", "main.go", "go"},
		{"uppercase normalized", "Main.RS", "rs"},
		{"mixed case", "README.Md", "md"},
		{"no dot", "Makefile", NoExtension},
		{"trailing dot", "weird.", NoExtension},
		{"multiple dots take last", "archive.tar.gz", "gz"},
		{"leading dot", ".gitignore", "gitignore"},
		{"full path uses base name", "/some/dir.d/file.py", "py"},
		{"dot in directory only", "/some/dir.d/file", NoExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtKey(tt.in))
		})
	}
}

func TestExclusionSet(t *testing.T) {
	set := NewExclusionSet([]string{"target", " node_modules ", ""})

	assert.True(t, set.Match("target"))
	assert.True(t, set.Match("node_modules"))
	assert.False(t, set.Match("src"))
	assert.False(t, set.Match(""))

	empty := NewExclusionSet(nil)
	assert.False(t, empty.Match("target"))
}

func TestExtensionFilter(t *testing.T) {
	tests := []struct {
		name    string
		include []string
		key     ExtensionKey
		want    bool
	}{
		{"empty filter passes everything", nil, "go", true},
		{"empty filter passes no-extension", nil, NoExtension, true},
		{"member passes", []string{"rs"}, "rs", true},
		{"non-member rejected", []string{"rs"}, "py", false},
		{"no-extension never matches non-empty set", []string{"rs"}, NoExtension, false},
		{"include set is case-insensitive", []string{"RS"}, "rs", true},
		{"leading dot stripped", []string{".go"}, "go", true},
		{"blank entries ignored", []string{"", "  "}, "go", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewExtensionFilter(tt.include)
			assert.Equal(t, tt.want, f.Match(tt.key))
		})
	}
}
