// Package atom provides the foundational types for the GTAF engine.
//
// This package contains identifier types, the sealed value union, the
// immutable atom record, and content hashing. All other internal packages
// import atom; atom imports nothing internal. This keeps it the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - AtomId and EntityId are opaque 16-byte values, comparable and usable
//     as map keys directly
//   - The Value union is sealed: exactly eight variants, with wire
//     discriminators that are part of the persisted format
//   - Content hashes are byte-for-byte stable across runs and across
//     save/load cycles; the hash function is part of the persisted contract
package atom
