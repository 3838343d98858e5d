package services

import "errors"

var (
	// ErrEmptyConcept wird zurückgegeben, wenn ohne Konzeptnamen gesucht wird.
	ErrEmptyConcept = errors.New("concept name must not be empty")
	// ErrUnknownConcept bedeutet, dass die Konzept-ID nicht existiert.
	ErrUnknownConcept = errors.New("unknown concept")
	// ErrInvalidIDs bedeutet eine leere oder fehlerhafte ID-Liste.
	ErrInvalidIDs = errors.New("invalid id list")
)
