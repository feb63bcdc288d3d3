package entities

// BOMLine represents a single component line in a Bill of Materials
type BOMLine struct {
	ParentPN     PartNumber
	ComponentPN  PartNumber
	Description  string
	QtyPer       float64
	ScrapPercent float64
}

// EffectiveRate returns the quantity of this component consumed per finished
// unit once scrap loss is included. Lines with a rate of zero or below are
// non-consuming (cost-only or notes-only BOM lines) and never constrain a
// build.
func (l BOMLine) EffectiveRate() float64 {
	return l.QtyPer * (1 + l.ScrapPercent/100)
}

// Consuming reports whether this line actually draws component stock.
func (l BOMLine) Consuming() bool {
	return l.EffectiveRate() > 0
}
