package places

import "shopscout-engine/internal/domain"

type Status int

const (
	StatusFound Status = iota
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PlaceLookup is the outcome of a text search. Err is set only when
// Status is StatusFailed.
type PlaceLookup struct {
	PlaceID string
	Status  Status
	Err     error
}

// DetailsLookup is the outcome of a details fetch. On failure Enrichment
// is empty.
type DetailsLookup struct {
	Enrichment domain.Enrichment
	Status     Status
	Err        error
}
