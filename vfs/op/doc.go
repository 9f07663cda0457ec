// Package op implements the free-function copy/move/delete/trash
// operations (spec §4.5), generalizing the original job.rs's free
// copy/move_/delete functions and the teacher's Move/DirMove
// rename-or-fallback pattern (backend/local/local.go) to arbitrary
// vfs.File implementations.
package op
