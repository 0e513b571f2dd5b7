package registry

import "fmt"

// DuplicateModuleError reports two module descriptors claiming the same name
// or the same route prefix. It is a programming error: composition aborts
// before any route is mounted, never resolved by last-write-wins.
type DuplicateModuleError struct {
	Field    string // "name" or "prefix"
	Value    string
	Existing string // name of the module already holding the value
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("duplicate module %s %q: already registered by module %q", e.Field, e.Value, e.Existing)
}

// DuplicateCollectionError reports two schema descriptors claiming the same
// collection, whether module-owned or directly registered. Like duplicate
// modules, it aborts composition.
type DuplicateCollectionError struct {
	Collection string
	First      string // owner label, e.g. `module "auth"` or "direct registration"
	Second     string
}

func (e *DuplicateCollectionError) Error() string {
	return fmt.Sprintf("duplicate collection %q: claimed by %s and %s", e.Collection, e.First, e.Second)
}

// IndexMaterializationError records a single index that could not be created
// for a reason other than "already exists with an identical definition".
// It is non-fatal: it lands in the startup report and the server still
// starts, with that one index missing.
type IndexMaterializationError struct {
	Collection string
	Index      string
	Err        error
}

func (e *IndexMaterializationError) Error() string {
	return fmt.Sprintf("materialize index %s on %s: %v", e.Index, e.Collection, e.Err)
}

func (e *IndexMaterializationError) Unwrap() error { return e.Err }

// MountCollisionError reports a route-prefix collision detected at mount
// time. The registry already rejects exact duplicates at registration; this
// second check also catches collisions the registry cannot see, such as
// prefixes differing only in case. Fatal.
type MountCollisionError struct {
	Prefix   string
	Module   string
	Existing string
}

func (e *MountCollisionError) Error() string {
	return fmt.Sprintf("mount collision at %q: module %q collides with already mounted module %q", e.Prefix, e.Module, e.Existing)
}
