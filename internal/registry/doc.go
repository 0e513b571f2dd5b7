// Package registry is the composition layer that lets the feature modules
// (auth, consultants, recruiters, jobs, submissions) plug into the server
// without knowing about each other.
//
// Each module hands over one descriptor: its name, the API prefix its routes
// mount under, documentation tags, an opaque route table, and the collection
// schemas it owns. The ModuleRegistry catalogues descriptors in registration
// order; the SchemaRegistry flattens every module's owned schemas (plus any
// collections registered directly) and materializes their indexes against
// the database handle.
//
// Registries are populated single-threaded during process bootstrap, before
// the server accepts traffic, and are read-only afterwards. There is no
// deregistration: module membership does not change at runtime. A descriptor
// belongs to the registry once registered and must not be mutated by the
// registering module afterwards.
package registry
