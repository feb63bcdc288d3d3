package entities

// OpenJob represents an in-progress production work order linked to a sales
// order. A sales order may carry several jobs for the same part (split jobs).
type OpenJob struct {
	JobNumber        string
	SalesOrderNumber string
	TargetQty        float64
	CompletedQty     float64
}
