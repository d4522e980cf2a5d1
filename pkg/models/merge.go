package models

// MergeByID replaces packages in current with the package from updates that
// has the same ID, keeping the order and membership of current.
//
// Updates for IDs that are not in current are discarded, since the collection
// may have changed since the updated packages were taken from it.
func MergeByID(current []Package, updates []Package) []Package {
	byID := make(map[string]Package, len(updates))
	for _, pkg := range updates {
		byID[pkg.ID] = pkg
	}

	merged := make([]Package, len(current))
	for i, pkg := range current {
		if updated, ok := byID[pkg.ID]; ok {
			merged[i] = updated
		} else {
			merged[i] = pkg
		}
	}

	return merged
}
