package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/sbomscope/sbomscope/pkg/models"
)

func dependencyLabel(dep models.Dependency) string {
	if dep.Version == "" {
		return dep.Name
	}

	return dep.Name + "@" + dep.Version
}

// RenderTree renders the dependency tree of a package.
func RenderTree(root models.Dependency) string {
	l := list.NewWriter()
	l.SetStyle(list.StyleConnectedRounded)

	level := 0
	root.Walk(func(dep models.Dependency, depth int) bool {
		for ; level < depth; level++ {
			l.Indent()
		}
		for ; level > depth; level-- {
			l.UnIndent()
		}
		l.AppendItem(dependencyLabel(dep))

		return true
	})

	return l.Render()
}

// describeTree summarizes how many dependencies a tree holds and how deep it goes.
func describeTree(root models.Dependency) string {
	deps := root.Size() - 1
	if deps == 0 {
		return "No dependencies."
	}
	levels := root.Depth() - 1

	return fmt.Sprintf("%s across %s",
		Form(deps, "1 dependency", fmt.Sprintf("%d dependencies", deps)),
		Form(levels, "1 level", fmt.Sprintf("%d levels", levels)),
	)
}

// PrintTree prints the dependency tree of every given package.
func PrintTree(pkgs []models.Package, outputWriter io.Writer) {
	for i, pkg := range pkgs {
		if i > 0 {
			fmt.Fprintln(outputWriter)
		}
		fmt.Fprintf(outputWriter, "%s (%s)\n", pkg.ID, Form(pkg.Dependencies.Size()-1, "1 dependency", fmt.Sprintf("%d dependencies", pkg.Dependencies.Size()-1)))
		fmt.Fprintln(outputWriter, RenderTree(pkg.Dependencies))
	}
}
