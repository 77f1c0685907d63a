package activity

import (
	"sort"
	"strings"
)

// Pagination describes the window applied to the full ranked record list.
// Total counts aggregate records, not raw events.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Page is the final shape handed to the response formatter.
type Page struct {
	Records    []Record   `json:"records"`
	Pagination Pagination `json:"pagination"`
}

// Rank sorts records by date descending, then display name ascending, with
// user ID as a final tiebreaker so the order is stable across replays.
func Rank(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		ni, nj := strings.ToLower(records[i].UserName), strings.ToLower(records[j].UserName)
		if ni != nj {
			return ni < nj
		}
		return records[i].UserID < records[j].UserID
	})
}

// Paginate slices the ranked list to the requested 1-indexed page. Pages out
// of range yield an empty record list with intact pagination metadata.
func Paginate(records []Record, page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	total := len(records)
	pages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	window := make([]Record, end-start)
	copy(window, records[start:end])

	return Page{
		Records: window,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}
}
