package entities

import "encoding/json"

// LineStatus is the allocation engine's verdict for a single sales-order line.
type LineStatus int

const (
	// StatusReadyToShip means the full ordered quantity can ship from
	// approved finished-goods stock.
	StatusReadyToShip LineStatus = iota
	// StatusPendingQC means the unshipped remainder is covered by
	// finished goods held for quality-control approval.
	StatusPendingQC
	// StatusOK means the full remainder can be produced from available
	// component stock.
	StatusOK
	// StatusPartial means only part of the remainder can be produced.
	StatusPartial
	// StatusPartialShip means some quantity ships from stock now while the
	// rest still needs production.
	StatusPartialShip
	// StatusCritical means nothing can be produced (no components, or no
	// BOM on file).
	StatusCritical
	// StatusJobCreated means a production job already exists for the sales
	// order; the material picture is preserved in MaterialStatus.
	StatusJobCreated
)

func (s LineStatus) String() string {
	switch s {
	case StatusReadyToShip:
		return "Ready to Ship"
	case StatusPendingQC:
		return "Pending QC"
	case StatusOK:
		return "OK"
	case StatusPartial:
		return "Partial"
	case StatusPartialShip:
		return "Partial Ship"
	case StatusCritical:
		return "Critical"
	case StatusJobCreated:
		return "Job Created"
	default:
		return "Unknown"
	}
}

// MarshalJSON renders the status as its display string.
func (s LineStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ComponentDetail is the per-component breakdown of one line's production
// stage.
type ComponentDetail struct {
	PartNumber    PartNumber `json:"part_number"`
	Description   string     `json:"description"`
	EffectiveRate float64    `json:"effective_rate"`
	RequiredQty   float64    `json:"required_qty"`
	OnHandBefore  float64    `json:"on_hand_before"`
	PendingQC     float64    `json:"pending_qc"`
	OpenPO        float64    `json:"open_po"`
	MaxBuild      float64    `json:"max_build"`
	AllocatedQty  float64    `json:"allocated_qty"`
	Shortfall     float64    `json:"shortfall"`
	Bottleneck    bool       `json:"bottleneck"`
	SharedWith    []string   `json:"shared_with,omitempty"`
}

// JobDetail reports progress of an open production job linked to the line's
// sales order.
type JobDetail struct {
	JobNumber    string  `json:"job_number"`
	TargetQty    float64 `json:"target_qty"`
	CompletedQty float64 `json:"completed_qty"`
}

// AllocationResult is the engine's full decision for one sales-order line.
// Results are computed fresh on every run and never persisted.
type AllocationResult struct {
	Line            SalesOrderLine    `json:"line"`
	Status          LineStatus        `json:"status"`
	MaterialStatus  LineStatus        `json:"material_status"`
	ShippableQty    float64           `json:"shippable_qty"`
	ProducibleQty   float64           `json:"producible_qty"`
	CanProduceQty   float64           `json:"can_produce_qty"`
	NetQty          float64           `json:"net_qty"`
	Bottleneck      string            `json:"bottleneck,omitempty"`
	BottleneckParts []PartNumber      `json:"bottleneck_parts,omitempty"`
	Components      []ComponentDetail `json:"components,omitempty"`
	Jobs            []JobDetail       `json:"jobs,omitempty"`
	ShiftsRequired  float64           `json:"shifts_required"`
	CapacityLine    string            `json:"capacity_line,omitempty"`
}
