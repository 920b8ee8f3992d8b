// Package resource owns translation resource files.
//
// Ownership boundary:
// - dot-separated key path parsing and traversal
// - JSON document read/patch/serialize
// - file access (Store) scoped to one locales root
// - namespace priority sets for one (root, lang) pair
//
// Traversal never creates structure. Documents keep the original key
// order; only the touched leaf changes between read and write.
package resource
