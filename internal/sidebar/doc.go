// Package sidebar builds the autogenerated navigation tree for a docs root:
// one category per directory, docs and categories ordered by position and
// then by file name.
package sidebar
