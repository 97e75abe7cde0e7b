// Package codebase implements spec.md §6 item 3, the Codebase Index
// external collaborator: by-name metadata lookups for classes, functions,
// and constants. "All lookups are pure and thread-safe" (spec.md §6) — both
// implementations in this package satisfy that by construction: mapstore
// guards its maps with a sync.RWMutex, sqlitestore delegates to
// database/sql's own connection-pool safety.
package codebase

import "github.com/glyphlang/glint/internal/types"

// ClassInfo is the metadata the index returns for a resolved class name
// (spec.md §6: "parents, implemented interfaces, properties, methods, enum
// cases, constants, is-final, is-abstract").
type ClassInfo struct {
	Name         string
	Parent       string
	Interfaces   []string
	Properties   map[string]types.Union
	Methods      map[string]FunctionInfo
	EnumCases    []string // non-empty only for enum declarations
	Constants    map[string]types.Union
	IsFinal      bool
	IsAbstract   bool
	IsEnum       bool
}

// FunctionInfo is the metadata the index returns for a resolved function or
// method name (spec.md §6: "signatures, purity, attribute flags").
type FunctionInfo struct {
	Name      string
	Signature types.Signature
	IsPure    bool
}

// Index is the read side of the codebase (spec.md §6 item 3). Every lookup
// returns ok=false rather than erroring when the name is unknown; callers
// that require the metadata to exist raise diagnostic.NewMissingMetadata
// themselves (spec.md §7 family 1).
type Index interface {
	Class(name string) (ClassInfo, bool)
	Function(name string) (FunctionInfo, bool)
	Constant(name string) (types.Union, bool)
	Global(name string) (types.Union, bool)
}
