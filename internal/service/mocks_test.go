package service

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"skirent-backend/internal/domain"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type MockMaterialRepo struct {
	mock.Mock
}

func (m *MockMaterialRepo) List(ctx context.Context) ([]domain.Material, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Material), args.Error(1)
}

func (m *MockMaterialRepo) ListActive(ctx context.Context) ([]domain.Material, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Material), args.Error(1)
}

func (m *MockMaterialRepo) GetByID(ctx context.Context, id int32) (*domain.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Material), args.Error(1)
}

func (m *MockMaterialRepo) Create(ctx context.Context, mat *domain.Material) error {
	return m.Called(ctx, mat).Error(0)
}

func (m *MockMaterialRepo) Update(ctx context.Context, mat *domain.Material) error {
	return m.Called(ctx, mat).Error(0)
}

func (m *MockMaterialRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepo) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepo) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepo) Create(ctx context.Context, c *domain.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepo) Update(ctx context.Context, c *domain.Client) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockClientRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) Update(ctx context.Context, id int32, patch domain.ReservationPatch) (*domain.Reservation, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) Delete(ctx context.Context, id int32) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReservationRepo) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListByClient(ctx context.Context, clientID string, limit int) ([]domain.Reservation, error) {
	args := m.Called(ctx, clientID, limit)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) CountByClient(ctx context.Context, clientID string) (int, error) {
	args := m.Called(ctx, clientID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) FinishExpired(ctx context.Context, today string) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepo) ListStartingOn(ctx context.Context, date string) ([]domain.Reservation, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendReservationConfirmation(ctx context.Context, to *domain.Client, r *domain.Reservation) error {
	return m.Called(ctx, to, r).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyNewClient(ctx context.Context, c *domain.Client) error {
	return m.Called(ctx, c).Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	args := m.Called(ctx, key, r)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockImageStore) PublicURL(key string) string {
	return m.Called(key).String(0)
}

func (m *MockImageStore) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}
