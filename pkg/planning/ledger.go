package planning

import "github.com/planfab/portal/pkg/domain/entities"

// LedgerEntry records one order's claim on a component during a plan run.
type LedgerEntry struct {
	SalesOrderNumber string  `json:"sales_order_number"`
	Qty              float64 `json:"qty"`
}

// AllocationLedger is the append-only side channel of component allocations
// within a single run. It exists purely to explain "shared with other orders"
// in the output; it never feeds back into the allocation control flow.
type AllocationLedger struct {
	byComponent map[entities.PartNumber][]LedgerEntry
}

// NewAllocationLedger creates an empty ledger.
func NewAllocationLedger() *AllocationLedger {
	return &AllocationLedger{byComponent: make(map[entities.PartNumber][]LedgerEntry)}
}

// Record appends an allocation of qty units of component pn to salesOrder.
func (l *AllocationLedger) Record(pn entities.PartNumber, salesOrder string, qty float64) {
	l.byComponent[pn] = append(l.byComponent[pn], LedgerEntry{
		SalesOrderNumber: salesOrder,
		Qty:              qty,
	})
}

// Entries returns the allocation history for a component in pass order.
func (l *AllocationLedger) Entries(pn entities.PartNumber) []LedgerEntry {
	return l.byComponent[pn]
}

// SharedWith lists the sales orders other than exclude that have already
// claimed component pn earlier in the pass.
func (l *AllocationLedger) SharedWith(pn entities.PartNumber, exclude string) []string {
	var orders []string
	seen := make(map[string]bool)
	for _, e := range l.byComponent[pn] {
		if e.SalesOrderNumber == exclude || seen[e.SalesOrderNumber] {
			continue
		}
		seen[e.SalesOrderNumber] = true
		orders = append(orders, e.SalesOrderNumber)
	}
	return orders
}
