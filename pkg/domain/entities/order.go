package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipDateLayout is the fixed date format used by the upstream ERP for
// due-ship dates.
const ShipDateLayout = "01/02/2006"

// SalesOrderLine is the unit of demand: one line per (sales order, part) pair
// in the open-order schedule. A multi-part order produces several lines and
// the engine treats each independently in due-date order.
type SalesOrderLine struct {
	SalesOrderNumber   string          `json:"sales_order_number"`
	PartNumber         PartNumber      `json:"part_number"`
	CustomerName       string          `json:"customer_name"`
	Description        string          `json:"description"`
	CurrentOrderedQty  float64         `json:"current_ordered_qty"`
	OriginalOrderedQty float64         `json:"original_ordered_qty"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	DueShipDate        string          `json:"due_ship_date"` // raw ERP value in ShipDateLayout, may be empty
	Facility           string          `json:"facility"`
	BusinessUnit       string          `json:"business_unit"`
}

// DueDate parses the line's due-ship date. The second return value is false
// when the date is missing or unparseable; such lines sort as infinitely late.
func (l SalesOrderLine) DueDate() (time.Time, bool) {
	if l.DueShipDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(ShipDateLayout, l.DueShipDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// OrderValue returns the full dollar value of the line.
func (l SalesOrderLine) OrderValue() decimal.Decimal {
	return decimal.NewFromFloat(l.CurrentOrderedQty).Mul(l.UnitPrice)
}
