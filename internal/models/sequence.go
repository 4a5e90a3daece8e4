package models

// Sequence is a per-entity-type monotonic counter backing public identifier
// allocation (USR<n>, TK<n>). Counters only ever grow, so identifiers of
// soft-deleted rows are never handed out again.
type Sequence struct {
	Name  string `gorm:"primarykey;type:varchar(50)"`
	Value uint64 `gorm:"not null"`
}
