package planning

import (
	"sort"

	"github.com/planfab/portal/pkg/domain/entities"
)

// SortByDueDate returns a new slice sorted ascending by parsed due-ship date.
// Lines with a missing or unparseable date sort last. The sort is stable:
// ties keep the upstream query's relative order, which groups lines by part
// number as a secondary priority.
func SortByDueDate(lines []entities.SalesOrderLine) []entities.SalesOrderLine {
	sorted := make([]entities.SalesOrderLine, len(lines))
	copy(sorted, lines)

	sort.SliceStable(sorted, func(i, j int) bool {
		di, iOK := sorted[i].DueDate()
		dj, jOK := sorted[j].DueDate()
		switch {
		case iOK && jOK:
			return di.Before(dj)
		case iOK:
			return true // dated lines come before undated ones
		default:
			return false
		}
	})

	return sorted
}
