// Package storage defines the documentation source-tree abstraction.
package storage

import "time"

// Ext is the file extension of documentation sources.
const Ext = ".md"

// File is one source document read together with its timestamps.
type File struct {
	Slug      string
	Data      []byte
	ModTime   time.Time
	BirthTime time.Time
}

// Provider is the interface for documentation source access.
type Provider interface {
	// Root returns the absolute source directory.
	Root() string
	// ListSlugs returns the slug of every source file in the root, sorted.
	ListSlugs() ([]string, error)
	// ReadDoc reads the source for slug. Content and timestamps come from a
	// single open descriptor.
	ReadDoc(slug string) (*File, error)
}
