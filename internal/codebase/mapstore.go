package codebase

import (
	"sync"

	"github.com/glyphlang/glint/internal/types"
)

// MapStore is the default in-memory Index: a small-project build populates
// it directly (spec.md §6: thread-safe reads required since the driver may
// analyze files concurrently, §5).
type MapStore struct {
	mu        sync.RWMutex
	classes   map[string]ClassInfo
	functions map[string]FunctionInfo
	constants map[string]types.Union
	globals   map[string]types.Union
}

// NewMapStore creates an empty MapStore.
func NewMapStore() *MapStore {
	return &MapStore{
		classes:   map[string]ClassInfo{},
		functions: map[string]FunctionInfo{},
		constants: map[string]types.Union{},
		globals:   map[string]types.Union{},
	}
}

// PutClass registers (or replaces) a class's metadata.
func (m *MapStore) PutClass(c ClassInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes[c.Name] = c
}

// PutFunction registers (or replaces) a function's metadata.
func (m *MapStore) PutFunction(f FunctionInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.functions[f.Name] = f
}

// PutConstant registers (or replaces) a constant's type.
func (m *MapStore) PutConstant(name string, u types.Union) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.constants[name] = u
}

// PutGlobal registers (or replaces) a global variable's declared type.
func (m *MapStore) PutGlobal(name string, u types.Union) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globals[name] = u
}

// Class implements Index.
func (m *MapStore) Class(name string) (ClassInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.classes[name]
	return c, ok
}

// Function implements Index.
func (m *MapStore) Function(name string) (FunctionInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.functions[name]
	return f, ok
}

// Constant implements Index.
func (m *MapStore) Constant(name string) (types.Union, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.constants[name]
	return u, ok
}

// Global implements Index.
func (m *MapStore) Global(name string) (types.Union, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.globals[name]
	return u, ok
}
