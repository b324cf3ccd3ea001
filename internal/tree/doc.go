// Package tree holds the in-memory directory cache and the path plumbing
// underneath it: a resolver that maps (root, entity, relative path) tuples to
// absolute filesystem paths with traversal containment, a deterministic
// recursive scanner that collects relative file listings, and the cache that
// snapshots those listings per entity. Only filenames are cached, never file
// contents, so listings stay cheap for trees with thousands of files. The
// lookup service in internal/sketch is the sole consumer; handlers never
// touch this package directly.
package tree
