// Package planning implements the MRP allocation core: snapshot builders,
// the demand ordering policy, the single-pass allocation engine, and the
// rollup reports derived from it.
package planning

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/planfab/portal/pkg/domain/entities"
	"github.com/planfab/portal/pkg/erp"
)

// The builders are pure transforms from raw ERP rows to typed lookups. Data
// anomalies (missing numerics, padded identifiers) are normalized here, never
// inside the allocation loop. A row with no identifier at all is a schema
// problem and fails loudly so a malformed upstream feed is caught early
// instead of producing silently wrong allocations.

// BuildComponentInventory keys raw-material rows by trimmed part number.
// Multiple rows per part (locations, lots) accumulate.
func BuildComponentInventory(rows []erp.Row) (map[entities.PartNumber]entities.ComponentInventory, error) {
	out := make(map[entities.PartNumber]entities.ComponentInventory, len(rows))
	for i, row := range rows {
		pn := entities.PartNumber(row.Str(erp.ColPartNumber))
		if pn == "" {
			return nil, fmt.Errorf("raw material inventory row %d has no part number", i)
		}
		inv := out[pn]
		inv.Approved += row.Float(erp.ColQtyApproved, 0)
		inv.PendingQC += row.Float(erp.ColQtyPendingQC, 0)
		inv.Quarantine += row.Float(erp.ColQtyQuarantine, 0)
		inv.IssuedToJob += row.Float(erp.ColQtyIssued, 0)
		inv.Staged += row.Float(erp.ColQtyStaged, 0)
		out[pn] = inv
	}
	return out, nil
}

// BuildFinishedGoodInventory keys finished-goods rows by trimmed part number.
func BuildFinishedGoodInventory(rows []erp.Row) (map[entities.PartNumber]entities.FinishedGoodInventory, error) {
	out := make(map[entities.PartNumber]entities.FinishedGoodInventory, len(rows))
	for i, row := range rows {
		pn := entities.PartNumber(row.Str(erp.ColPartNumber))
		if pn == "" {
			return nil, fmt.Errorf("finished goods inventory row %d has no part number", i)
		}
		inv := out[pn]
		inv.Approved += row.Float(erp.ColQtyApproved, 0)
		inv.PendingQC += row.Float(erp.ColQtyPendingQC, 0)
		inv.Total = inv.Approved + inv.PendingQC
		out[pn] = inv
	}
	return out, nil
}

// SumOpenPurchaseOrders totals open (not yet received) PO quantity per
// component part number.
func SumOpenPurchaseOrders(rows []erp.Row) (map[entities.PartNumber]float64, error) {
	out := make(map[entities.PartNumber]float64, len(rows))
	for i, row := range rows {
		pn := entities.PartNumber(row.Str(erp.ColPartNumber))
		if pn == "" {
			return nil, fmt.Errorf("purchase order row %d has no part number", i)
		}
		out[pn] += row.Float(erp.ColQtyOpen, 0)
	}
	return out, nil
}

// IndexBOMLines groups BOM component rows by trimmed parent part number.
func IndexBOMLines(rows []erp.Row) (map[entities.PartNumber][]entities.BOMLine, error) {
	out := make(map[entities.PartNumber][]entities.BOMLine)
	for i, row := range rows {
		parent := entities.PartNumber(row.Str(erp.ColParentPart))
		if parent == "" {
			return nil, fmt.Errorf("bom row %d has no parent part number", i)
		}
		line := entities.BOMLine{
			ParentPN:     parent,
			ComponentPN:  entities.PartNumber(row.Str(erp.ColComponentPart)),
			Description:  row.Str(erp.ColComponentDesc),
			QtyPer:       row.Float(erp.ColQtyPer, 0),
			ScrapPercent: row.Float(erp.ColScrapPct, 0),
		}
		out[parent] = append(out[parent], line)
	}
	return out, nil
}

// IndexOpenJobs groups in-progress production jobs by sales-order number.
func IndexOpenJobs(rows []erp.Row) (map[string][]entities.OpenJob, error) {
	out := make(map[string][]entities.OpenJob)
	for i, row := range rows {
		so := row.Str(erp.ColSONumber)
		if so == "" {
			return nil, fmt.Errorf("production job row %d has no sales order number", i)
		}
		out[so] = append(out[so], entities.OpenJob{
			JobNumber:        row.Str(erp.ColJobNumber),
			SalesOrderNumber: so,
			TargetQty:        row.Float(erp.ColQtyTarget, 0),
			CompletedQty:     row.Float(erp.ColQtyCompleted, 0),
		})
	}
	return out, nil
}

// BuildSalesOrderLines converts open-order-schedule rows to typed lines,
// preserving the upstream row order (it carries a meaningful secondary
// priority used by the stable due-date sort).
func BuildSalesOrderLines(rows []erp.Row) ([]entities.SalesOrderLine, error) {
	out := make([]entities.SalesOrderLine, 0, len(rows))
	for i, row := range rows {
		so := row.Str(erp.ColSONumber)
		pn := entities.PartNumber(row.Str(erp.ColPartNumber))
		if so == "" || pn == "" {
			return nil, fmt.Errorf("open order row %d is missing sales order or part number", i)
		}
		out = append(out, entities.SalesOrderLine{
			SalesOrderNumber:   so,
			PartNumber:         pn,
			CustomerName:       row.Str(erp.ColCustomerName),
			Description:        row.Str(erp.ColPartDesc),
			CurrentOrderedQty:  row.Float(erp.ColQtyOrdered, 0),
			OriginalOrderedQty: row.Float(erp.ColQtyOrderedOG, 0),
			UnitPrice:          decimal.NewFromFloat(row.Float(erp.ColUnitPrice, 0)),
			DueShipDate:        row.Str(erp.ColDueShipDate),
			Facility:           row.Str(erp.ColFacility),
			BusinessUnit:       row.Str(erp.ColBusinessUnit),
		})
	}
	return out, nil
}
