// Package vfs defines the core contracts of the virtual filesystem:
// URIs, file handles, typed metadata, streams, enumerators, monitors
// and the scheme registry that dispatches a URI to the backend that
// serves it.
//
// Concrete backends (see backend/local) and the higher-level reactive
// directory and device models (see dir, device) are built on top of
// these contracts; nothing in this package depends on them.
package vfs
