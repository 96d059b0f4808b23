// Package store implements the shared probability store: single-slot
// threshold registers resolved by (name, scope).
//
// A Register holds one unsigned 32-bit drop-probability numerator. The
// Scope chosen at resolution time decides whether independent attachments
// observe one shared register or separate copies: process scope gives a
// fresh register per resolution, private scope shares within one
// Resolver, and global scope pins the register as a file in a shared
// namespace so it outlives the resolving process.
//
// Reads and writes are single-word atomic in every scope, including
// across processes mapping the same pinned register. Resolve is the only
// operation that may touch the filesystem; Load and Store are safe on
// the per-packet path.
package store
