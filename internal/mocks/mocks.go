// internal/mocks/mocks.go
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/devi-jewellers/rate-service/internal/domain/entity"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/api"
	"github.com/devi-jewellers/rate-service/internal/infrastructure/journal"
)

// MockRateRepository mocks the RateRepository interface
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRateRepository) Latest(ctx context.Context) (*entity.RateReading, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateReading), args.Error(1)
}

func (m *MockRateRepository) Upsert(ctx context.Context, reading *entity.RateReading) (*entity.RateReading, error) {
	args := m.Called(ctx, reading)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateReading), args.Error(1)
}

// MockGoldRateRepository mocks the GoldRateRepository interface
type MockGoldRateRepository struct {
	mock.Mock
}

func (m *MockGoldRateRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGoldRateRepository) InsertActive(ctx context.Context, rate *entity.GoldRate) (*entity.GoldRate, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GoldRate), args.Error(1)
}

func (m *MockGoldRateRepository) LatestActive(ctx context.Context) (*entity.GoldRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GoldRate), args.Error(1)
}

// MockImageRepository mocks the ImageRepository interface
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockImageRepository) Insert(ctx context.Context, img *entity.Image) (*entity.Image, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Image), args.Error(1)
}

func (m *MockImageRepository) All(ctx context.Context) ([]entity.Image, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Image), args.Error(1)
}

func (m *MockImageRepository) Latest(ctx context.Context) (*entity.Image, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Image), args.Error(1)
}

func (m *MockImageRepository) ByCategory(ctx context.Context, category string) ([]entity.Image, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Image), args.Error(1)
}

// MockRateSource mocks the RateSource interface
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) Latest(ctx context.Context) (*entity.RateReading, string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*entity.RateReading), args.String(1), args.Error(2)
}

// MockRateFetcher mocks the upstream feed fetcher
type MockRateFetcher struct {
	mock.Mock
}

func (m *MockRateFetcher) Fetch(ctx context.Context, url string) (api.RawDocument, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(api.RawDocument), args.Error(1)
}

// MockRestInserter mocks the REST data-API writer
type MockRestInserter struct {
	mock.Mock
}

func (m *MockRestInserter) Insert(ctx context.Context, reading *entity.RateReading) (*entity.RateReading, error) {
	args := m.Called(ctx, reading)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RateReading), args.Error(1)
}

// MockSyncJournal mocks the sync journal
type MockSyncJournal struct {
	mock.Mock
}

func (m *MockSyncJournal) Record(entry journal.Entry) error {
	args := m.Called(entry)
	return args.Error(0)
}
