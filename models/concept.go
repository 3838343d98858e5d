package models

import "time"

// Concept ist ein Lernkonzept, für das Ressourcen kuratiert werden.
type Concept struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"` // z.B. "Neural Networks"
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Concept) TableName() string {
	return "concepts"
}
