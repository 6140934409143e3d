package models

// Record is one row of external tabular data: a flat mapping with
// unpredictable key names. Values are whatever the JSON decoder produced
// (string, float64, bool or nil); the resolver coerces them to strings.
type Record map[string]any

// Batch is the raw payload fetched from the spreadsheet source. Every
// category is optional; an absent or empty category means "nothing to
// update" for the corresponding collection.
type Batch struct {
	Usuarios []Record `json:"usuarios,omitempty"`
	Turmas   []Record `json:"turmas,omitempty"`
	Base     []Record `json:"base,omitempty"`
}

// IsEmpty reports whether the batch carries no rows at all.
func (b *Batch) IsEmpty() bool {
	return len(b.Usuarios) == 0 && len(b.Turmas) == 0 && len(b.Base) == 0
}
