package erp

import "context"

// Canonical column names the builders read from raw rows. Implementations of
// Source alias their queries to these names; lookups are case-insensitive so
// legacy mixed-case variants still resolve.
const (
	ColSONumber     = "SO_NUMBER"
	ColPartNumber   = "PART_NUMBER"
	ColCustomerName = "CUSTOMER_NAME"
	ColPartDesc     = "PART_DESCRIPTION"
	ColQtyOrdered   = "QTY_ORDERED"
	ColQtyOrderedOG = "QTY_ORDERED_ORIG"
	ColUnitPrice    = "UNIT_PRICE"
	ColDueShipDate  = "DUE_SHIP_DATE"
	ColFacility     = "FACILITY"
	ColBusinessUnit = "BUSINESS_UNIT"

	ColParentPart    = "PARENT_PART"
	ColComponentPart = "COMPONENT_PART"
	ColComponentDesc = "COMPONENT_DESC"
	ColQtyPer        = "QTY_PER"
	ColScrapPct      = "SCRAP_PCT"

	ColQtyOpen = "QTY_OPEN"

	ColQtyApproved   = "QTY_APPROVED"
	ColQtyPendingQC  = "QTY_PENDING_QC"
	ColQtyQuarantine = "QTY_QUARANTINE"
	ColQtyIssued     = "QTY_ISSUED"
	ColQtyStaged     = "QTY_STAGED"

	ColJobNumber    = "JOB_NUMBER"
	ColQtyTarget    = "QTY_TARGET"
	ColQtyCompleted = "QTY_COMPLETED"
)

// Source is the read-only query surface the planning core consumes. A failed
// upstream fetch should surface as an error from the individual method; the
// core treats empty result sets as valid input and degrades gracefully.
type Source interface {
	// OpenOrderSchedule returns every open sales-order line.
	OpenOrderSchedule(ctx context.Context) ([]Row, error)
	// BOMData returns all bill-of-materials component rows.
	BOMData(ctx context.Context) ([]Row, error)
	// PurchaseOrderData returns open (not yet received) purchase-order lines.
	PurchaseOrderData(ctx context.Context) ([]Row, error)
	// RawMaterialInventory returns component inventory rows.
	RawMaterialInventory(ctx context.Context) ([]Row, error)
	// FinishedGoodInventory returns finished-goods inventory rows.
	FinishedGoodInventory(ctx context.Context) ([]Row, error)
	// OpenProductionJobs returns in-progress production jobs.
	OpenProductionJobs(ctx context.Context) ([]Row, error)
	// ProductionLineCapacity maps production line id to per-shift capacity.
	ProductionLineCapacity(ctx context.Context) (map[string]float64, error)
}
