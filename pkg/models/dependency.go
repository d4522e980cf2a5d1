package models

// Dependency is a snapshot of a package's position in the dependency graph.
//
// Trees are owned values: the same native element reached from two different
// roots results in two independent copies.
type Dependency struct {
	Name     string       `json:"name"`
	Version  string       `json:"version"`
	Children []Dependency `json:"children"`
}

// Leaf returns a node with the given name and version and no children.
func Leaf(name, version string) Dependency {
	return Dependency{Name: name, Version: version, Children: []Dependency{}}
}

// Size returns the number of nodes in the tree, including the root.
func (d Dependency) Size() int {
	n := 1
	for _, child := range d.Children {
		n += child.Size()
	}

	return n
}

// Depth returns the number of nodes on the longest path from the root to a leaf.
func (d Dependency) Depth() int {
	deepest := 0
	for _, child := range d.Children {
		deepest = max(deepest, child.Depth())
	}

	return deepest + 1
}

// Walk visits every node in the tree depth-first, passing along how far from
// the root the node is. Returning false from fn skips the node's children.
func (d Dependency) Walk(fn func(node Dependency, depth int) bool) {
	d.walk(fn, 0)
}

func (d Dependency) walk(fn func(node Dependency, depth int) bool, depth int) {
	if !fn(d, depth) {
		return
	}

	for _, child := range d.Children {
		child.walk(fn, depth+1)
	}
}
