package core

import (
	"fmt"
	"strings"
	"sync"
)

// The built-in catalog is assembled at init by the fields package, in the
// order fields are registered.
var (
	registry   []BusinessField
	registered = make(map[string]bool)
	registryMu sync.RWMutex
)

// Register appends a field to the built-in catalog.
// Panics if the field is invalid or its ID or name is already registered.
func Register(f BusinessField) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if err := f.Validate(); err != nil {
		panic(fmt.Sprintf("invalid business field: %v", err))
	}
	idKey := "id:" + strings.ToLower(f.ID)
	nameKey := "name:" + strings.ToLower(f.Name)
	if registered[idKey] {
		panic(fmt.Sprintf("business field already registered: %s", f.ID))
	}
	if registered[nameKey] {
		panic(fmt.Sprintf("business field name already registered: %s", f.Name))
	}
	registered[idKey] = true
	registered[nameKey] = true

	registry = append(registry, f.clone())
}

// DefaultCatalog returns the built-in catalog. It is empty unless the fields
// package has been imported.
func DefaultCatalog() *Catalog {
	registryMu.RLock()
	defer registryMu.RUnlock()

	c, err := NewCatalog(registry...)
	if err != nil {
		// Register enforces the same rules NewCatalog does.
		panic(err)
	}
	return c
}

// FieldCount returns the number of registered fields.
func FieldCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
