package table

// Page size choices offered by list screens.
var PageSizeOptions = []int{5, 10, 20, 50}

const DefaultPageSize = 10

// PageItem is one slot of the page strip: a page number or an ellipsis.
type PageItem struct {
	Number   int
	Ellipsis bool
}

func pagesOf(nums ...int) []PageItem {
	out := make([]PageItem, 0, len(nums))
	for _, n := range nums {
		if n == 0 {
			out = append(out, PageItem{Ellipsis: true})
			continue
		}
		out = append(out, PageItem{Number: n})
	}
	return out
}

// VisiblePages returns a bounded page strip. Up to seven pages are listed in
// full; beyond that the strip keeps the first and last page and compresses
// the rest around current with ellipses.
func VisiblePages(current, total int) []PageItem {
	if total <= 0 {
		return nil
	}
	if total <= 7 {
		out := make([]PageItem, 0, total)
		for i := 1; i <= total; i++ {
			out = append(out, PageItem{Number: i})
		}
		return out
	}
	switch {
	case current <= 4:
		return pagesOf(1, 2, 3, 4, 5, 0, total)
	case current >= total-3:
		return pagesOf(1, 0, total-4, total-3, total-2, total-1, total)
	default:
		return pagesOf(1, 0, current-1, current, current+1, 0, total)
	}
}

func HasPrev(page int) bool { return page > 1 }

func HasNext(page, totalPages int) bool { return page < totalPages }

// Range returns the 1-based first and last item shown on page.
func Range(page, size, total int) (int, int) {
	if total <= 0 || size <= 0 || page < 1 {
		return 0, 0
	}
	start := (page-1)*size + 1
	end := page * size
	if end > total {
		end = total
	}
	if start > total {
		return 0, 0
	}
	return start, end
}

// ValidPageSize reports whether n is one of the offered sizes.
func ValidPageSize(n int) bool {
	for _, o := range PageSizeOptions {
		if o == n {
			return true
		}
	}
	return false
}

// NextPageSize cycles through PageSizeOptions.
func NextPageSize(n int) int {
	for i, o := range PageSizeOptions {
		if o == n {
			return PageSizeOptions[(i+1)%len(PageSizeOptions)]
		}
	}
	return DefaultPageSize
}
