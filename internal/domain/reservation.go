package domain

import (
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationStatusDraft    ReservationStatus = "DRAFT"
	ReservationStatusActive   ReservationStatus = "ACTIVE"
	ReservationStatusFinished ReservationStatus = "FINISHED"
)

// NormalizeStatus maps free-form status strings, including the legacy Spanish values
// stored by older clients, onto the fixed set. Anything unknown is a draft.
func NormalizeStatus(value string) ReservationStatus {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "ACTIVE", "ACTIVO":
		return ReservationStatusActive
	case "FINISHED", "TERMINADO":
		return ReservationStatusFinished
	default:
		return ReservationStatusDraft
	}
}

const materialNotePrefix = "Material:"

// MaterialNote builds the notes value that records which material a reservation is for.
func MaterialNote(materialName string) string {
	return materialNotePrefix + " " + materialName
}

// Reservation is a persisted rental order ("pedido").
type Reservation struct {
	ID        int32             `json:"id"`
	ClientID  string            `json:"client_id"`
	Status    ReservationStatus `json:"status"`
	StartDate string            `json:"start_date"` // YYYY-MM-DD
	EndDate   string            `json:"end_date"`   // YYYY-MM-DD
	Days      int               `json:"days"`
	Total     float64           `json:"total"`
	Notes     string            `json:"notes"`
	CreatedOn time.Time         `json:"created_on"`
}

// MaterialName extracts the material name recorded in the notes.
func (r Reservation) MaterialName() string {
	return strings.TrimSpace(strings.Replace(r.Notes, materialNotePrefix, "", 1))
}

// ReservationPatch is the set of columns an update may change.
type ReservationPatch struct {
	Status    *ReservationStatus `json:"status,omitempty"`
	StartDate *string            `json:"start_date,omitempty"`
	EndDate   *string            `json:"end_date,omitempty"`
	Days      *int               `json:"days,omitempty"`
	Total     *float64           `json:"total,omitempty"`
	Notes     *string            `json:"notes,omitempty"`
}
