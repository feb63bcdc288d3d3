// Package memory provides an in-memory erp.Source for unit tests and local
// development without a mirror database.
package memory

import (
	"context"

	"github.com/planfab/portal/pkg/erp"
)

// Source holds raw ERP rows in memory.
type Source struct {
	orders     []erp.Row
	boms       []erp.Row
	pos        []erp.Row
	rawInv     []erp.Row
	fgInv      []erp.Row
	jobs       []erp.Row
	capacities map[string]float64
}

// NewSource creates an empty in-memory source.
func NewSource() *Source {
	return &Source{capacities: map[string]float64{}}
}

// Verify interface compliance
var _ erp.Source = (*Source)(nil)

// AddOrderLine appends a raw open-order-schedule row.
func (s *Source) AddOrderLine(row erp.Row) {
	s.orders = append(s.orders, row)
}

// AddBOMLine appends a raw BOM component row.
func (s *Source) AddBOMLine(row erp.Row) {
	s.boms = append(s.boms, row)
}

// AddPurchaseOrder appends a raw open purchase-order row.
func (s *Source) AddPurchaseOrder(row erp.Row) {
	s.pos = append(s.pos, row)
}

// AddRawMaterial appends a raw component-inventory row.
func (s *Source) AddRawMaterial(row erp.Row) {
	s.rawInv = append(s.rawInv, row)
}

// AddFinishedGood appends a raw finished-goods inventory row.
func (s *Source) AddFinishedGood(row erp.Row) {
	s.fgInv = append(s.fgInv, row)
}

// AddJob appends a raw open production-job row.
func (s *Source) AddJob(row erp.Row) {
	s.jobs = append(s.jobs, row)
}

// SetLineCapacity records a production line's per-shift capacity.
func (s *Source) SetLineCapacity(lineID string, perShift float64) {
	s.capacities[lineID] = perShift
}

// OpenOrderSchedule returns every open sales-order line.
func (s *Source) OpenOrderSchedule(ctx context.Context) ([]erp.Row, error) {
	return s.orders, nil
}

// BOMData returns all bill-of-materials component rows.
func (s *Source) BOMData(ctx context.Context) ([]erp.Row, error) {
	return s.boms, nil
}

// PurchaseOrderData returns open purchase-order lines.
func (s *Source) PurchaseOrderData(ctx context.Context) ([]erp.Row, error) {
	return s.pos, nil
}

// RawMaterialInventory returns component inventory rows.
func (s *Source) RawMaterialInventory(ctx context.Context) ([]erp.Row, error) {
	return s.rawInv, nil
}

// FinishedGoodInventory returns finished-goods inventory rows.
func (s *Source) FinishedGoodInventory(ctx context.Context) ([]erp.Row, error) {
	return s.fgInv, nil
}

// OpenProductionJobs returns in-progress production jobs.
func (s *Source) OpenProductionJobs(ctx context.Context) ([]erp.Row, error) {
	return s.jobs, nil
}

// ProductionLineCapacity maps production line id to per-shift capacity.
func (s *Source) ProductionLineCapacity(ctx context.Context) (map[string]float64, error) {
	out := make(map[string]float64, len(s.capacities))
	for k, v := range s.capacities {
		out[k] = v
	}
	return out, nil
}
