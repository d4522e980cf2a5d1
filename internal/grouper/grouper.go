// Package grouper groups vulnerabilities by aliases, then sorts them.
package grouper

import (
	"maps"
	"slices"
	"sort"
	"strings"
)

// Group is a set of records that all describe the same vulnerability.
type Group struct {
	// IDs of the records in this group, most canonical first
	IDs []string
	// Aliases is every identifier known for the group, sorted and deduplicated
	Aliases []string
}

// DisplayID is the identifier that best represents the group.
func (g Group) DisplayID() string {
	if len(g.IDs) == 0 {
		return ""
	}

	return g.IDs[0]
}

func hasAliasIntersection(v1, v2 IDAliases) bool {
	// Check if any aliases intersect.
	for _, alias := range v1.Aliases {
		if slices.Contains(v2.Aliases, alias) {
			return true
		}
	}
	// Check if either IDs are in the others' aliases, or are the same ID.
	return v1.ID == v2.ID || slices.Contains(v1.Aliases, v2.ID) || slices.Contains(v2.Aliases, v1.ID)
}

// GroupByAliases groups vulnerabilities that share an id or alias.
func GroupByAliases(vulns []IDAliases) []Group {
	// Mapping of `vulns` index to its parent; each root is the smallest index of its group.
	parents := make([]int, len(vulns))
	for i := range vulns {
		parents[i] = i
	}

	find := func(i int) int {
		for parents[i] != i {
			parents[i] = parents[parents[i]]
			i = parents[i]
		}

		return i
	}

	// Do a pair-wise (n^2) comparison and merge all intersecting vulns.
	for i := range vulns {
		for j := i + 1; j < len(vulns); j++ {
			if !hasAliasIntersection(vulns[i], vulns[j]) {
				continue
			}

			ri, rj := find(i), find(j)
			if ri == rj {
				continue
			}
			parents[max(ri, rj)] = min(ri, rj)
		}
	}

	extractedGroups := map[int][]string{}
	extractedAliases := map[int][]string{}
	for i := range vulns {
		gid := find(i)
		extractedGroups[gid] = append(extractedGroups[gid], vulns[i].ID)
		extractedAliases[gid] = append(extractedAliases[gid], vulns[i].Aliases...)
	}

	// Sort by group ID to maintain stable order for tests.
	sortedKeys := slices.Sorted(maps.Keys(extractedGroups))

	result := make([]Group, 0, len(sortedKeys))
	for _, key := range sortedKeys {
		ids := slices.Compact(slices.SortedFunc(slices.Values(extractedGroups[key]), IDSortFunc))

		aliases := slices.Concat(extractedAliases[key], ids)
		sort.Strings(aliases)
		aliases = slices.Compact(aliases)

		result = append(result, Group{IDs: ids, Aliases: aliases})
	}

	return result
}

func prefixOrder(prefix string) int {
	switch prefix {
	case "CVE":
		return 2
	case "GHSA":
		return 0
	}

	return 1
}

// IDSortFunc sorts IDs ascending by CVE < [ECO-SPECIFIC] < GHSA
func IDSortFunc(a, b string) int {
	prefixA := prefixOrder(strings.Split(a, "-")[0])
	prefixB := prefixOrder(strings.Split(b, "-")[0])

	if prefixA != prefixB {
		return prefixB - prefixA
	}

	return strings.Compare(a, b)
}
