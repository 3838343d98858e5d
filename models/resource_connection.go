package models

// ResourceConnection ist eine abgeleitete Kante zwischen zwei Ressourcen, die Konzepte teilen.
type ResourceConnection struct {
	SourceResourceID   uint `json:"sourceResourceId"`
	TargetResourceID   uint `json:"targetResourceId"`
	ConnectionStrength int  `json:"connectionStrength"`
}
