package dto

// Discrepancy is one divergence between the aggregate counters and the unit
// registry for a (product, source) pair.
type Discrepancy struct {
	ProductID string `json:"product_id"`
	SourceID  string `json:"source_id"`
	Field     string `json:"field"` // available, reserved or sold
	Aggregate int    `json:"aggregate"`
	Units     int    `json:"units"`
}

// AuditReport is the auditor's result for one run.
type AuditReport struct {
	CheckedSources int           `json:"checked_sources"`
	Discrepancies  []Discrepancy `json:"discrepancies"`
}
