// Package content turns loaded doc sources into immutable page records and
// assembles them into a Site with navigation, tags and lookup indexes.
package content
