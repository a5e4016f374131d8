// Package pagerange resolves a page-range policy into an ordered page list.
package pagerange

import (
	"sort"
	"strconv"
	"strings"

	"github.com/caseforge/pagevault/internal/domain"
)

// Resolve turns a page-range policy into an ascending, deduplicated list of
// page numbers within [1, pageCount]. An empty result is returned as-is; the
// caller decides whether that is an error.
func Resolve(pageCount int, mode domain.PageRangeMode, customExpr string, selected []int) []int {
	switch mode {
	case domain.PageRangeSelected:
		return filterPages(selected, pageCount)
	case domain.PageRangeCustom:
		return parseCustom(customExpr, pageCount)
	default: // all
		all := make([]int, pageCount)
		for i := range all {
			all[i] = i + 1
		}
		return all
	}
}

// filterPages keeps in-range pages, deduplicated and sorted ascending.
func filterPages(pages []int, pageCount int) []int {
	seen := make(map[int]bool, len(pages))
	for _, p := range pages {
		if p >= 1 && p <= pageCount {
			seen[p] = true
		}
	}
	return sortedKeys(seen)
}

// parseCustom parses a comma-separated range expression like "1-3,7,12-10".
// Terms that fail to parse are skipped. Range bounds are clamped: the start to
// [1, pageCount], the end to [start, pageCount], so a reversed pair collapses
// to its start page.
func parseCustom(expr string, pageCount int) []int {
	seen := make(map[int]bool)

	for _, term := range strings.Split(expr, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		if strings.Contains(term, "-") {
			parts := strings.SplitN(term, "-", 2)
			start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
			end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err1 != nil || err2 != nil {
				continue
			}
			if start < 1 {
				start = 1
			}
			if start > pageCount {
				start = pageCount
			}
			if end < start {
				end = start
			}
			if end > pageCount {
				end = pageCount
			}
			for p := start; p <= end; p++ {
				seen[p] = true
			}
			continue
		}

		p, err := strconv.Atoi(term)
		if err != nil {
			continue
		}
		if p >= 1 && p <= pageCount {
			seen[p] = true
		}
	}

	return sortedKeys(seen)
}

func sortedKeys(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}
