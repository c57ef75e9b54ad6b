package reservation

import (
	"strings"
	"time"

	"skirent-backend/internal/domain"
)

// DefaultMaxDays is the longest reservation accepted when no limit is configured.
const DefaultMaxDays = 30

// RejectionReason identifies the first validation rule a draft failed.
type RejectionReason string

const (
	ReasonMaterialNotSelected RejectionReason = "MATERIAL_NOT_SELECTED"
	ReasonDatesMissing        RejectionReason = "DATES_MISSING"
	ReasonDateInPast          RejectionReason = "DATE_IN_PAST"
	ReasonEndBeforeStart      RejectionReason = "END_BEFORE_START"
	ReasonDurationTooLong     RejectionReason = "DURATION_TOO_LONG"
)

func (r RejectionReason) Error() string {
	return string(r)
}

// Message returns the text shown to the person filling in the form.
func (r RejectionReason) Message() string {
	switch r {
	case ReasonMaterialNotSelected:
		return "select a material"
	case ReasonDatesMissing:
		return "select a start and an end date"
	case ReasonDateInPast:
		return "dates cannot be in the past"
	case ReasonEndBeforeStart:
		return "the end date cannot be before the start date"
	case ReasonDurationTooLong:
		return "the reservation is longer than allowed"
	default:
		return string(r)
	}
}

// Draft is the unvalidated input of the reservation form.
//
// A material is chosen by MaterialID. MaterialName is used only when no id is given,
// which is how a stored reservation (that records the name in its notes) is re-edited.
type Draft struct {
	MaterialID   *int32
	MaterialName string
	StartDate    string
	EndDate      string
	Status       domain.ReservationStatus
}

// ValidatedReservation is a draft that passed every rule, with its price computed.
type ValidatedReservation struct {
	Status       domain.ReservationStatus
	StartDate    time.Time
	EndDate      time.Time
	MaterialID   int32
	MaterialName string
	UnitPrice    float64
	Days         int
	Total        float64
}

// Outcome is either Validated or Rejected.
type Outcome interface {
	isOutcome()
}

type Validated struct {
	Reservation ValidatedReservation
}

type Rejected struct {
	Reason RejectionReason
}

func (Validated) isOutcome() {}
func (Rejected) isOutcome()  {}

// Policy applies the reservation rules against a clock and a maximum length.
type Policy struct {
	clock   Clock
	maxDays int
}

// NewPolicy creates a policy. A nil clock reads the system clock in UTC and a
// non-positive maxDays falls back to DefaultMaxDays.
func NewPolicy(clock Clock, maxDays int) *Policy {
	if clock == nil {
		clock = SystemClock{Location: time.UTC}
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}
	return &Policy{clock: clock, maxDays: maxDays}
}

func (p *Policy) MaxDays() int {
	return p.maxDays
}

// Today is the reference date for the past-date rule.
func (p *Policy) Today() time.Time {
	return Today(p.clock)
}

// Validate runs the rules in order and reports the first failure.
// Only active catalog entries can be selected.
func (p *Policy) Validate(draft Draft, catalog []domain.Material) Outcome {
	material, ok := resolveMaterial(draft, catalog)
	if !ok {
		return Rejected{Reason: ReasonMaterialNotSelected}
	}

	start, okStart := Parse(strings.TrimSpace(draft.StartDate))
	end, okEnd := Parse(strings.TrimSpace(draft.EndDate))
	if !okStart || !okEnd {
		return Rejected{Reason: ReasonDatesMissing}
	}

	today := p.Today()
	if start.Before(today) || end.Before(today) {
		return Rejected{Reason: ReasonDateInPast}
	}
	if end.Before(start) {
		return Rejected{Reason: ReasonEndBeforeStart}
	}

	days := DayCount(start, end)
	if days > p.maxDays {
		return Rejected{Reason: ReasonDurationTooLong}
	}

	status := draft.Status
	if status == "" {
		status = domain.ReservationStatusDraft
	} else {
		status = domain.NormalizeStatus(string(status))
	}

	unitPrice := material.UnitPrice()
	return Validated{Reservation: ValidatedReservation{
		Status:       status,
		StartDate:    start,
		EndDate:      end,
		MaterialID:   material.ID,
		MaterialName: material.Name,
		UnitPrice:    unitPrice,
		Days:         days,
		Total:        TotalPrice(days, unitPrice),
	}}
}

func resolveMaterial(draft Draft, catalog []domain.Material) (domain.Material, bool) {
	if draft.MaterialID != nil {
		for _, m := range catalog {
			if m.Active && m.ID == *draft.MaterialID {
				return m, true
			}
		}
		return domain.Material{}, false
	}

	name := strings.TrimSpace(draft.MaterialName)
	if name == "" {
		return domain.Material{}, false
	}
	for _, m := range catalog {
		if m.Active && strings.EqualFold(strings.TrimSpace(m.Name), name) {
			return m, true
		}
	}
	return domain.Material{}, false
}
