package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"skirent-backend/internal/domain"
	"skirent-backend/internal/reservation"
	"skirent-backend/internal/security"
	"skirent-backend/internal/service"
	"skirent-backend/internal/storage"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Quote(ctx context.Context, actor domain.Actor, draft reservation.Draft) (reservation.Outcome, error) {
	args := m.Called(ctx, actor, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(reservation.Outcome), args.Error(1)
}

func (m *MockReservationService) Submit(ctx context.Context, actor domain.Actor, req reservation.SubmitRequest) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) GetReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) ListReservations(ctx context.Context, actor domain.Actor) ([]domain.Reservation, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationService) ListClientReservations(ctx context.Context, actor domain.Actor, clientID string, limit int) ([]domain.Reservation, error) {
	args := m.Called(ctx, actor, clientID, limit)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CountReservations(ctx context.Context, actor domain.Actor) (int, error) {
	args := m.Called(ctx, actor)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationService) CountClientReservations(ctx context.Context, actor domain.Actor, clientID string) (int, error) {
	args := m.Called(ctx, actor, clientID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationService) DeleteReservation(ctx context.Context, actor domain.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

type stubAuthService struct {
	err error
}

func (s stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	if s.err != nil {
		return nil, "", "", s.err
	}
	return &domain.User{AuthUserID: "client-1", Email: email}, "access", "refresh", nil
}

func (s stubAuthService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	return "new-access:" + refresh, "new-refresh", s.err
}

type testServer struct {
	router       http.Handler
	reservations *MockReservationService
	tokens       security.TokenManager
}

func newTestServer(t *testing.T, auth service.AuthService, images storage.ImageStore) *testServer {
	t.Helper()
	tokens := security.NewTokenManager(testSecret, time.Hour, time.Hour)
	reservations := new(MockReservationService)
	router := NewRouter(Services{Auth: auth, Reservations: reservations}, RouterOptions{
		Tokens: tokens,
		Images: images,
	})
	return &testServer{router: router, reservations: reservations, tokens: tokens}
}

func (s *testServer) token(t *testing.T, user *domain.User, refresh bool) string {
	t.Helper()
	var tok string
	var err error
	if refresh {
		tok, err = s.tokens.GenerateRefreshToken(user)
	} else {
		tok, err = s.tokens.GenerateAccessToken(user)
	}
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

var (
	customer = &domain.User{AuthUserID: "client-1", RoleID: 1, Email: "ana@example.com"}
	admin    = &domain.User{AuthUserID: "admin-1", RoleID: domain.RoleIDAdmin, Email: "boss@example.com"}
)

func TestRouter_Healthz(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rec := s.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_Authentication(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.do(http.MethodGet, "/api/v1/reservations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/reservations", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/reservations", s.token(t, customer, true), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/reservations/3", s.token(t, customer, false), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PERMISSION_DENIED", decodeError(t, rec).Code)
	s.reservations.AssertNotCalled(t, "DeleteReservation", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_Login(t *testing.T) {
	s := newTestServer(t, stubAuthService{}, nil)
	rec := s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"ana@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "access", body["access_token"])

	s = newTestServer(t, stubAuthService{err: service.ErrPasswordInvalid}, nil)
	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"ana@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"ana@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Refresh(t *testing.T) {
	s := newTestServer(t, stubAuthService{}, nil)
	refresh := s.token(t, customer, true)

	rec := s.do(http.MethodPost, "/api/v1/auth/refresh", refresh, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new-access:"+refresh)

	rec = s.do(http.MethodPost, "/api/v1/auth/refresh", s.token(t, customer, false), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_CreateReservation(t *testing.T) {
	materialID := int32(7)
	body := `{"material_id":7,"start_date":"2025-06-10","end_date":"2025-06-12"}`
	actor := domain.Actor{UserID: "client-1", RoleID: 1}
	req := reservation.SubmitRequest{Draft: reservation.Draft{MaterialID: &materialID, StartDate: "2025-06-10", EndDate: "2025-06-12"}}

	t.Run("created", func(t *testing.T) {
		s := newTestServer(t, nil, nil)
		s.reservations.On("Submit", mock.Anything, actor, req).
			Return(&domain.Reservation{ID: 12, ClientID: "client-1", Status: domain.ReservationStatusDraft, Days: 3, Total: 60}, nil)

		rec := s.do(http.MethodPost, "/api/v1/reservations", s.token(t, customer, false), body)
		require.Equal(t, http.StatusCreated, rec.Code)
		var got domain.Reservation
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, int32(12), got.ID)
		assert.Equal(t, 60.0, got.Total)
	})

	t.Run("rejected", func(t *testing.T) {
		s := newTestServer(t, nil, nil)
		s.reservations.On("Submit", mock.Anything, actor, req).Return(nil, reservation.ReasonDateInPast)

		rec := s.do(http.MethodPost, "/api/v1/reservations", s.token(t, customer, false), body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, ErrorResponse{Code: "DATE_IN_PAST", Message: "dates cannot be in the past"}, decodeError(t, rec))
	})

	t.Run("external failure", func(t *testing.T) {
		s := newTestServer(t, nil, nil)
		s.reservations.On("Submit", mock.Anything, actor, req).
			Return(nil, &reservation.ExternalFailure{Op: "create reservation", Message: "network down", Err: errors.New("network down")})

		rec := s.do(http.MethodPost, "/api/v1/reservations", s.token(t, customer, false), body)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "network down", decodeError(t, rec).Message)
	})

	t.Run("admin books for unknown client", func(t *testing.T) {
		s := newTestServer(t, nil, nil)
		adminActor := domain.Actor{UserID: "admin-1", RoleID: domain.RoleIDAdmin}
		forClient := req
		forClient.ClientID = "not-a-uuid"
		s.reservations.On("Submit", mock.Anything, adminActor, forClient).
			Return(nil, fmt.Errorf("client id %q: %w", "not-a-uuid", domain.ErrInvalid))

		rec := s.do(http.MethodPost, "/api/v1/reservations", s.token(t, admin, false),
			`{"client_id":"not-a-uuid","material_id":7,"start_date":"2025-06-10","end_date":"2025-06-12"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "INVALID_ARGUMENT", decodeError(t, rec).Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		s := newTestServer(t, nil, nil)
		rec := s.do(http.MethodPost, "/api/v1/reservations", s.token(t, customer, false), `{"materal":7}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_UpdateReservation(t *testing.T) {
	s := newTestServer(t, nil, nil)
	id := int32(4)
	s.reservations.On("Submit", mock.Anything, domain.Actor{UserID: "admin-1", RoleID: domain.RoleIDAdmin}, reservation.SubmitRequest{
		ClientID:      "client-1",
		ReservationID: &id,
		Draft:         reservation.Draft{MaterialName: "Burton Custom", StartDate: "2025-06-10", EndDate: "2025-06-10", Status: "ACTIVE"},
	}).Return(nil, domain.ErrNotFound)

	rec := s.do(http.MethodPut, "/api/v1/reservations/4", s.token(t, admin, false),
		`{"client_id":"client-1","material_name":"Burton Custom","start_date":"2025-06-10","end_date":"2025-06-10","status":" ACTIVE "}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPut, "/api/v1/reservations/abc", s.token(t, admin, false), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Quote(t *testing.T) {
	s := newTestServer(t, nil, nil)
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	s.reservations.On("Quote", mock.Anything, mock.Anything, mock.MatchedBy(func(d reservation.Draft) bool {
		return d.StartDate == "2025-06-10"
	})).Return(reservation.Validated{Reservation: reservation.ValidatedReservation{
		Status: domain.ReservationStatusDraft, StartDate: start, EndDate: start.AddDate(0, 0, 2),
		MaterialID: 7, MaterialName: "Atomic Redster", UnitPrice: 20, Days: 3, Total: 60,
	}}, nil)
	s.reservations.On("Quote", mock.Anything, mock.Anything, mock.Anything).
		Return(reservation.Rejected{Reason: reservation.ReasonMaterialNotSelected}, nil)

	rec := s.do(http.MethodPost, "/api/v1/reservations/quote", s.token(t, customer, false), `{"material_id":7,"start_date":"2025-06-10","end_date":"2025-06-12"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":true,"quote":{"material_id":7,"material_name":"Atomic Redster","status":"DRAFT",
		"start_date":"2025-06-10","end_date":"2025-06-12","unit_price":20,"days":3,"total":60}}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/reservations/quote", s.token(t, customer, false), `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid":false,"reason":"MATERIAL_NOT_SELECTED","message":"select a material"}`, rec.Body.String())
}

func TestRouter_Counts(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.reservations.On("CountReservations", mock.Anything, mock.Anything).Return(3, nil)
	s.reservations.On("ListClientReservations", mock.Anything, mock.Anything, "client-1", 2).Return([]domain.Reservation{{ID: 1}, {ID: 2}}, nil)

	rec := s.do(http.MethodGet, "/api/v1/reservations/count", s.token(t, customer, false), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/clients/client-1/reservations?limit=2", s.token(t, customer, false), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/clients/client-1/reservations?limit=-1", s.token(t, customer, false), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Uploads(t *testing.T) {
	dir := t.TempDir()
	images, err := storage.NewLocalStorage("http://localhost/uploads", dir)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "materials", "1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "materials", "1", "a.png"), []byte("png"), 0o600))

	s := newTestServer(t, nil, images)

	rec := s.do(http.MethodGet, "/uploads/materials/1/a.png", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png", rec.Body.String())

	rec = s.do(http.MethodGet, "/uploads/materials/1/missing.png", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Observer(t *testing.T) {
	observer := &recordingObserver{}
	router := NewRouter(Services{}, RouterOptions{Tokens: security.NewTokenManager(testSecret, 0, 0), Observer: observer})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reservations/9", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Len(t, observer.routes, 1)
	assert.Equal(t, "/api/v1/reservations/{id}", observer.routes[0])
	assert.Equal(t, http.StatusUnauthorized, observer.codes[0])
}

type recordingObserver struct {
	routes []string
	codes  []int
}

func (o *recordingObserver) ObserveHTTPRequest(route, method string, code int, seconds float64) {
	o.routes = append(o.routes, route)
	o.codes = append(o.codes, code)
}
