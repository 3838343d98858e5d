package models

// LearningProfile hält die Lernstil-Gewichte eines Nutzers. Gepflegt wird es außerhalb dieses Dienstes.
type LearningProfile struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      string `json:"userId" gorm:"uniqueIndex;not null"`
	Visual      int    `json:"visual"`
	Auditory    int    `json:"auditory"`
	Reading     int    `json:"reading"`
	Kinesthetic int    `json:"kinesthetic"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (LearningProfile) TableName() string {
	return "learning_profiles"
}

// Weights liefert die Gewichte als LearningStyleFit.
func (p LearningProfile) Weights() LearningStyleFit {
	return LearningStyleFit{Visual: p.Visual, Auditory: p.Auditory, Reading: p.Reading, Kinesthetic: p.Kinesthetic}
}
