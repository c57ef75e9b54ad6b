package reservation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skirent-backend/internal/domain"
)

var june1 = FixedClock{Instant: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)}

func price(v float64) *float64 { return &v }

func id(v int32) *int32 { return &v }

func testCatalog() []domain.Material {
	return []domain.Material{
		{ID: 1, Name: "Atomic Redster", Price: price(15), Active: true},
		{ID: 2, Name: "Burton Custom", Price: price(20), Active: true},
		{ID: 3, Name: "Helmet", Active: true},
		{ID: 4, Name: "Retired Boots", Price: price(5), Active: false},
	}
}

func validated(t *testing.T, out Outcome) ValidatedReservation {
	t.Helper()
	v, ok := out.(Validated)
	require.True(t, ok, "expected Validated, got %#v", out)
	return v.Reservation
}

func rejectedReason(t *testing.T, out Outcome) RejectionReason {
	t.Helper()
	r, ok := out.(Rejected)
	require.True(t, ok, "expected Rejected, got %#v", out)
	return r.Reason
}

func TestPolicy_SameDayReservation(t *testing.T) {
	p := NewPolicy(june1, 0)
	res := validated(t, p.Validate(Draft{MaterialID: id(1), StartDate: "2025-06-10", EndDate: "2025-06-10"}, testCatalog()))

	assert.Equal(t, 1, res.Days)
	assert.Equal(t, 15.0, res.Total)
	assert.Equal(t, domain.ReservationStatusDraft, res.Status)
	assert.Equal(t, "Atomic Redster", res.MaterialName)
}

func TestPolicy_MultiDayReservation(t *testing.T) {
	p := NewPolicy(june1, 0)
	res := validated(t, p.Validate(Draft{MaterialID: id(2), StartDate: "2025-06-10", EndDate: "2025-06-12"}, testCatalog()))

	assert.Equal(t, 3, res.Days)
	assert.Equal(t, 60.0, res.Total)
	assert.Equal(t, "2025-06-10", Format(res.StartDate))
	assert.Equal(t, "2025-06-12", Format(res.EndDate))
}

func TestPolicy_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  RejectionReason
	}{
		{"no material", Draft{StartDate: "2025-06-10", EndDate: "2025-06-12"}, ReasonMaterialNotSelected},
		{"unknown material", Draft{MaterialID: id(99), StartDate: "2025-06-10", EndDate: "2025-06-12"}, ReasonMaterialNotSelected},
		{"inactive material", Draft{MaterialID: id(4), StartDate: "2025-06-10", EndDate: "2025-06-12"}, ReasonMaterialNotSelected},
		{"no material and past start", Draft{StartDate: "2025-05-01", EndDate: "2025-06-12"}, ReasonMaterialNotSelected},
		{"missing start", Draft{MaterialID: id(1), EndDate: "2025-06-12"}, ReasonDatesMissing},
		{"missing end", Draft{MaterialID: id(1), StartDate: "2025-06-10"}, ReasonDatesMissing},
		{"unparseable start", Draft{MaterialID: id(1), StartDate: "10/06/2025", EndDate: "2025-06-12"}, ReasonDatesMissing},
		{"impossible date", Draft{MaterialID: id(1), StartDate: "2025-02-30", EndDate: "2025-06-12"}, ReasonDatesMissing},
		{"start in past", Draft{MaterialID: id(1), StartDate: "2025-05-31", EndDate: "2025-06-12"}, ReasonDateInPast},
		{"start in past end before start", Draft{MaterialID: id(1), StartDate: "2025-05-31", EndDate: "2025-05-20"}, ReasonDateInPast},
		{"start in past end far away", Draft{MaterialID: id(1), StartDate: "2025-05-31", EndDate: "2026-01-01"}, ReasonDateInPast},
		{"end before start", Draft{MaterialID: id(1), StartDate: "2025-06-12", EndDate: "2025-06-10"}, ReasonEndBeforeStart},
		{"thirty six days", Draft{MaterialID: id(1), StartDate: "2025-06-10", EndDate: "2025-07-15"}, ReasonDurationTooLong},
		{"thirty one days", Draft{MaterialID: id(1), StartDate: "2025-06-10", EndDate: "2025-07-10"}, ReasonDurationTooLong},
	}
	p := NewPolicy(june1, DefaultMaxDays)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rejectedReason(t, p.Validate(tt.draft, testCatalog())))
		})
	}
}

func TestPolicy_Boundaries(t *testing.T) {
	p := NewPolicy(june1, DefaultMaxDays)

	res := validated(t, p.Validate(Draft{MaterialID: id(1), StartDate: "2025-06-01", EndDate: "2025-06-30"}, testCatalog()))
	assert.Equal(t, 30, res.Days)
	assert.Equal(t, 450.0, res.Total)

	res = validated(t, p.Validate(Draft{MaterialID: id(1), StartDate: " 2025-06-01 ", EndDate: "2025-06-01"}, testCatalog()))
	assert.Equal(t, 1, res.Days)
}

func TestPolicy_CustomMaxDays(t *testing.T) {
	p := NewPolicy(june1, 7)
	assert.Equal(t, 7, p.MaxDays())

	validated(t, p.Validate(Draft{MaterialID: id(1), StartDate: "2025-06-10", EndDate: "2025-06-16"}, testCatalog()))
	assert.Equal(t, ReasonDurationTooLong,
		rejectedReason(t, p.Validate(Draft{MaterialID: id(1), StartDate: "2025-06-10", EndDate: "2025-06-17"}, testCatalog())))
}

func TestPolicy_UnpricedMaterialIsFree(t *testing.T) {
	p := NewPolicy(june1, 0)
	res := validated(t, p.Validate(Draft{MaterialID: id(3), StartDate: "2025-06-10", EndDate: "2025-06-14"}, testCatalog()))

	assert.Equal(t, 5, res.Days)
	assert.Equal(t, 0.0, res.Total)
}

func TestPolicy_ResolvesByName(t *testing.T) {
	p := NewPolicy(june1, 0)
	res := validated(t, p.Validate(Draft{MaterialName: " burton custom", StartDate: "2025-06-10", EndDate: "2025-06-11"}, testCatalog()))

	assert.Equal(t, int32(2), res.MaterialID)
	assert.Equal(t, 40.0, res.Total)
}

func TestPolicy_CarriesStatus(t *testing.T) {
	p := NewPolicy(june1, 0)
	res := validated(t, p.Validate(Draft{MaterialID: id(1), StartDate: "2025-06-10", EndDate: "2025-06-11", Status: "ACTIVO"}, testCatalog()))
	assert.Equal(t, domain.ReservationStatusActive, res.Status)

	res = validated(t, p.Validate(Draft{MaterialID: id(1), StartDate: "2025-06-10", EndDate: "2025-06-11", Status: domain.ReservationStatusFinished}, testCatalog()))
	assert.Equal(t, domain.ReservationStatusFinished, res.Status)
}

func TestRejectionReason_IsError(t *testing.T) {
	var err error = ReasonDateInPast
	assert.EqualError(t, err, "DATE_IN_PAST")
	assert.Equal(t, "dates cannot be in the past", ReasonDateInPast.Message())
}
