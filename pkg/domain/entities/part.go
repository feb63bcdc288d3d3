package entities

// PartNumber represents a unique part identifier
type PartNumber string

// ComponentInventory is the per-part breakdown of raw-material stock as it
// stood when the snapshot was built. It is never mutated during a plan run;
// the engine keeps its own live copy of the approved balance.
type ComponentInventory struct {
	Approved    float64
	PendingQC   float64
	Quarantine  float64
	IssuedToJob float64
	Staged      float64
}

// FinishedGoodInventory is the per-part breakdown of finished-goods stock.
type FinishedGoodInventory struct {
	Approved  float64
	PendingQC float64
	Total     float64
}
