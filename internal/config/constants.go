package config

// Version is the current glint version.
// Set at build time via -ldflags or by writing to this file.
var Version = "0.1.0"

const SourceFileExt = ".glyph"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".glyph", ".gly"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode makes artifacts.Graph.NewNode issue stable counter ids
// instead of random UUIDs, so golden fixtures can compare dataflow graphs.
// Set once at process startup.
var IsTestMode = false

// IsLSPMode gives editor-facing consumers the same stable node ids.
var IsLSPMode = false

// Built-in trait names recognised by the analyzer (foreach iteration,
// string concatenation) and the assertion extractor (count calls).
// CountableTrait is not referenced by any code.
const (
	IterTraitName     = "Iter"
	IterMethodName    = "iter"
	CountableTrait    = "Countable"
	CountableMethod   = "count"
	StringableTrait   = "Stringable"
	StringableMethod  = "toString"
)
