package reservation

import (
	"context"
	"errors"
	"fmt"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/logger"
)

// Catalog lists the materials that can be reserved.
type Catalog interface {
	ListActive(ctx context.Context) ([]domain.Material, error)
}

// Store persists reservations.
type Store interface {
	Create(ctx context.Context, r *domain.Reservation) error
	Update(ctx context.Context, id int32, patch domain.ReservationPatch) (*domain.Reservation, error)
}

// Recorder observes validation and submission results. The metrics package implements it.
type Recorder interface {
	ObserveValidation(outcome string)
	ObserveSubmission(result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveValidation(string) {}
func (nopRecorder) ObserveSubmission(string) {}

// Submission results reported to the Recorder.
const (
	ResultCreated  = "created"
	ResultUpdated  = "updated"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// ExternalFailure wraps an error returned by the catalog or the store. Message is the
// collaborator's own error text, passed through unchanged.
type ExternalFailure struct {
	Op      string
	Message string
	Err     error
}

func (e *ExternalFailure) Error() string {
	return e.Message
}

func (e *ExternalFailure) Unwrap() error {
	return e.Err
}

func external(op string, err error) *ExternalFailure {
	return &ExternalFailure{Op: op, Message: err.Error(), Err: err}
}

// SubmitRequest carries a draft and the context it was submitted in. A nil
// ReservationID creates a reservation; otherwise that reservation is updated.
type SubmitRequest struct {
	ClientID      string
	ReservationID *int32
	Draft         Draft
}

// Submitter validates drafts and hands the accepted ones to the store.
type Submitter struct {
	catalog  Catalog
	store    Store
	policy   *Policy
	recorder Recorder
}

// NewSubmitter creates a submitter. recorder may be nil.
func NewSubmitter(catalog Catalog, store Store, policy *Policy, recorder Recorder) *Submitter {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Submitter{catalog: catalog, store: store, policy: policy, recorder: recorder}
}

// Quote validates a draft against the current catalog without persisting anything.
// The error is non-nil only when the catalog cannot be read.
func (s *Submitter) Quote(ctx context.Context, draft Draft) (Outcome, error) {
	catalog, err := s.catalog.ListActive(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load material catalog", "error", err)
		return nil, external("list materials", err)
	}

	outcome := s.policy.Validate(draft, catalog)
	switch outcome.(type) {
	case Validated:
		s.recorder.ObserveValidation("valid")
	case Rejected:
		s.recorder.ObserveValidation("rejected")
	}
	return outcome, nil
}

// Submit validates the draft and creates or updates the reservation.
//
// A failed rule is returned as a RejectionReason and nothing is persisted. Errors
// from the catalog or the store are returned as *ExternalFailure, except input errors:
// updating a reservation that does not exist returns domain.ErrNotFound and a create
// for an unknown or malformed client id returns the store's domain.ErrInvalid.
func (s *Submitter) Submit(ctx context.Context, req SubmitRequest) (*domain.Reservation, error) {
	logger.EnterMethod("reservation.Submit", "clientID", req.ClientID, "update", req.ReservationID != nil)

	outcome, err := s.Quote(ctx, req.Draft)
	if err != nil {
		s.recorder.ObserveSubmission(ResultFailed)
		logger.ExitMethodWithError("reservation.Submit", err)
		return nil, err
	}

	rejected, ok := outcome.(Rejected)
	if ok {
		s.recorder.ObserveSubmission(ResultRejected)
		logger.Info("reservation rejected", "clientID", req.ClientID, "reason", rejected.Reason)
		return nil, rejected.Reason
	}
	valid := outcome.(Validated).Reservation

	if req.ReservationID == nil {
		res := &domain.Reservation{
			ClientID:  req.ClientID,
			Status:    valid.Status,
			StartDate: Format(valid.StartDate),
			EndDate:   Format(valid.EndDate),
			Days:      valid.Days,
			Total:     valid.Total,
			Notes:     domain.MaterialNote(valid.MaterialName),
		}
		if err := s.store.Create(ctx, res); err != nil {
			s.recorder.ObserveSubmission(ResultFailed)
			logger.ExitMethodWithError("reservation.Submit", err)
			if errors.Is(err, domain.ErrInvalid) || errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("client %q: %w", req.ClientID, err)
			}
			return nil, external("create reservation", err)
		}
		s.recorder.ObserveSubmission(ResultCreated)
		logger.ExitMethod("reservation.Submit", "reservationID", res.ID)
		return res, nil
	}

	res, err := s.store.Update(ctx, *req.ReservationID, patchFor(valid))
	if err != nil {
		s.recorder.ObserveSubmission(ResultFailed)
		logger.ExitMethodWithError("reservation.Submit", err)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("reservation %d: %w", *req.ReservationID, domain.ErrNotFound)
		}
		return nil, external("update reservation", err)
	}
	s.recorder.ObserveSubmission(ResultUpdated)
	logger.ExitMethod("reservation.Submit", "reservationID", res.ID)
	return res, nil
}

func patchFor(v ValidatedReservation) domain.ReservationPatch {
	status := v.Status
	start := Format(v.StartDate)
	end := Format(v.EndDate)
	days := v.Days
	total := v.Total
	notes := domain.MaterialNote(v.MaterialName)
	return domain.ReservationPatch{
		Status:    &status,
		StartDate: &start,
		EndDate:   &end,
		Days:      &days,
		Total:     &total,
		Notes:     &notes,
	}
}
