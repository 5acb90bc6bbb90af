package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/autoleads/internal/entity"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) LoadLeads(ctx context.Context) ([]entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) SaveLeads(ctx context.Context, leads []entity.Lead) error {
	args := m.Called(ctx, leads)
	return args.Error(0)
}

func (m *MockLeadRepository) LoadProfile(ctx context.Context) (*entity.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserProfile), args.Error(1)
}

func (m *MockLeadRepository) SaveProfile(ctx context.Context, profile entity.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Extract(ctx context.Context, req entity.ExtractionRequest) (*entity.ExtractionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExtractionResult), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadAccepted(ctx context.Context, lead entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendLeadsExport(to string, csv []byte, count int) error {
	args := m.Called(to, csv, count)
	return args.Error(0)
}

type MockWhatsApp struct {
	mock.Mock
}

func (m *MockWhatsApp) SendText(ctx context.Context, phone, body string) (string, error) {
	args := m.Called(ctx, phone, body)
	return args.String(0), args.Error(1)
}

// sequentialIDs gera lead-1, lead-2, ...
type sequentialIDs struct{ n int }

func (s *sequentialIDs) NewID() string {
	s.n++
	return fmt.Sprintf("lead-%d", s.n)
}

var fixedNow = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func testDeduplicator() *Deduplicator {
	return &Deduplicator{IDs: &sequentialIDs{}, Now: func() time.Time { return fixedNow }}
}

// newTestSession cria uma sessão já carregada com os leads informados e repositório aceitando gravações.
func newTestSession(existing ...entity.Lead) (*Session, *MockLeadRepository) {
	repo := new(MockLeadRepository)
	if existing == nil {
		existing = []entity.Lead{}
	}
	repo.On("LoadLeads", mock.Anything).Return(existing, nil)
	repo.On("LoadProfile", mock.Anything).Return(nil, nil)

	s := NewSession(repo)
	if err := s.Load(context.Background()); err != nil {
		panic(err)
	}
	return s, repo
}
