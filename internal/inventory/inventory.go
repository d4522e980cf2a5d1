// Package inventory holds the packages of the documents currently selected
// for viewing and scanning.
package inventory

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sbomscope/sbomscope/pkg/models"
	"github.com/sbomscope/sbomscope/pkg/sbom"
)

// AllDocuments selects every document in the index.
const AllDocuments = "all"

// ErrUnknownDocument is returned when selecting a document that is not in the index.
var ErrUnknownDocument = errors.New("document is not in the index")

// Inventory is the active collection of packages.
//
// It is safe for concurrent use; every method returns copies so that callers
// can never alter the collection other than through Select and Apply.
type Inventory struct {
	dir       string
	documents []string

	mu        sync.RWMutex
	selection string
	packages  []models.Package
}

// New reads the index of dir without loading any documents.
func New(dir string) (*Inventory, error) {
	documents, err := sbom.ReadIndex(dir)
	if err != nil {
		return nil, err
	}

	return &Inventory{
		dir:       dir,
		documents: documents,
		packages:  []models.Package{},
	}, nil
}

// Documents returns the names of every document in the index.
func (inv *Inventory) Documents() []string {
	return slices.Clone(inv.documents)
}

// Selection returns what was last passed to Select, or "" if nothing has been
// selected yet.
func (inv *Inventory) Selection() string {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	return inv.selection
}

// Select replaces the collection with the packages of the named document, or
// of every document when name is AllDocuments.
//
// Documents that fail to load are left out, and their errors are returned
// joined together after the collection has been replaced.
func (inv *Inventory) Select(name string) error {
	names := inv.documents
	if name != AllDocuments {
		if !slices.Contains(inv.documents, name) {
			return fmt.Errorf("%w: %s", ErrUnknownDocument, name)
		}
		names = []string{name}
	}

	pkgs, err := sbom.LoadAll(inv.dir, names)

	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.selection = name
	inv.packages = pkgs

	return err
}

// Packages returns the current collection, in document order.
func (inv *Inventory) Packages() []models.Package {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	return slices.Clone(inv.packages)
}

// Find returns the package with the given id.
func (inv *Inventory) Find(id string) (models.Package, bool) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	i := slices.IndexFunc(inv.packages, func(pkg models.Package) bool { return pkg.ID == id })
	if i == -1 {
		return models.Package{}, false
	}

	return inv.packages[i], true
}

// Apply merges updated packages into the collection by id. Updates for
// packages that are no longer in the collection are dropped.
func (inv *Inventory) Apply(updates []models.Package) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.packages = models.MergeByID(inv.packages, updates)
}
