package models

// Counter backs human-readable sequence numbers (SKUs, order numbers).
// Advancing it is always expressed as a relative update so concurrent
// assignments cannot read the same value.
type Counter struct {
	BaseModel
	Name  string `gorm:"uniqueIndex" json:"name"`
	Value int64  `json:"value"`
}
