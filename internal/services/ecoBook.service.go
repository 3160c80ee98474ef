package services

import (
	"sort"
	"sync"

	"github.com/notnil/chess/opening"
)

var (
	bookTableOnce sync.Once
	bookTable     *EcoTable
)

// BookEcoTable derives an opening table from the chess opening book. Codes are
// sorted and each code keeps the alphabetically first title among its lines.
func BookEcoTable() *EcoTable {
	bookTableOnce.Do(func() {
		bookTable = buildBookEcoTable(opening.NewBookECO())
	})
	return bookTable
}

func buildBookEcoTable(book opening.Book) *EcoTable {
	openings := book.Possible(nil)

	entries := make([]EcoEntry, 0, len(openings))
	for _, o := range openings {
		if o == nil || o.Code() == "" {
			continue
		}
		entries = append(entries, EcoEntry{Code: o.Code(), Description: o.Title()})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Code != entries[j].Code {
			return entries[i].Code < entries[j].Code
		}
		return entries[i].Description < entries[j].Description
	})

	table := &EcoTable{index: make(map[string]int, len(entries))}
	for _, entry := range entries {
		if _, exists := table.index[entry.Code]; exists {
			continue
		}
		table.add(entry.Code, entry.Description)
	}
	return table
}
