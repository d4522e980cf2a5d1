package filter

// DefaultPageSize is the number of packages shown per page unless told otherwise.
const DefaultPageSize = 8

// Ellipsis stands in for a run of skipped page numbers in a page range.
const Ellipsis = -1

// Page is one page of a larger list of items.
type Page[T any] struct {
	Items []T
	// Number is the 1-based number of this page
	Number int
	// Count is the total number of pages, which is at least 1
	Count int
	// Total is the number of items across every page
	Total int
}

// Paginate returns the given 1-based page of items.
//
// Page numbers below 1 give the first page and numbers past the end give the
// last page. Sizes below 1 use DefaultPageSize.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}

	count := max((len(items)+size-1)/size, 1)
	number = min(max(number, 1), count)

	start := (number - 1) * size
	end := min(start+size, len(items))

	return Page[T]{
		Items:  items[start:end],
		Number: number,
		Count:  count,
		Total:  len(items),
	}
}

// Range returns the page numbers to offer for navigating from the current
// page, with Ellipsis in place of the numbers that are skipped.
//
// The first and last pages are always included, as are the given number of
// sibling pages on either side of the current one.
func Range(count, current, siblings int) []int {
	totalNumbers := siblings*2 + 3
	totalBlocks := totalNumbers + 2

	if count <= totalBlocks {
		return sequence(1, count)
	}

	left := max(current-siblings, 1)
	right := min(current+siblings, count)

	showLeftDots := left > 2
	showRightDots := right < count-2

	switch {
	case !showLeftDots && showRightDots:
		return append(sequence(1, 3+2*siblings), Ellipsis, count)
	case showLeftDots && !showRightDots:
		n := 3 + 2*siblings
		return append([]int{1, Ellipsis}, sequence(count-n+1, count)...)
	default:
		pages := append([]int{1, Ellipsis}, sequence(left, right)...)
		return append(pages, Ellipsis, count)
	}
}

// sequence returns the numbers from first to last inclusive.
func sequence(first, last int) []int {
	nums := make([]int, 0, max(last-first+1, 0))
	for i := first; i <= last; i++ {
		nums = append(nums, i)
	}

	return nums
}
