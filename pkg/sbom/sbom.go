// Package sbom normalizes CycloneDX and SPDX documents into the canonical
// package model.
package sbom

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrUnsupportedFormat is returned for documents that are neither CycloneDX nor SPDX
	ErrUnsupportedFormat = errors.New("unsupported SBOM format")
	// ErrNoDocuments is returned when there is nothing to load
	ErrNoDocuments = errors.New("no SBOM documents found")
)

// DocumentError records why a single document could not be loaded.
type DocumentError struct {
	Name string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// idAllocator hands out document-scoped package ids.
//
// Repeated native ids get a "#<n>" suffix from their second occurrence on, so
// that ids stay unique and stable across runs over the same document.
type idAllocator struct {
	source string
	seen   map[string]int
}

func newIDAllocator(source string) *idAllocator {
	return &idAllocator{source: source, seen: map[string]int{}}
}

func (a *idAllocator) next(ref string) string {
	a.seen[ref]++

	id := a.source + ":" + ref
	if n := a.seen[ref]; n > 1 {
		id += "#" + strconv.Itoa(n)
	}

	return id
}
