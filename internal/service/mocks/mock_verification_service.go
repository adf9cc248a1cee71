package mocks

import (
	"context"

	"docverify/internal/console"
	"docverify/internal/model"
	"docverify/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) Load(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVerificationService) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVerificationService) Students(ctx context.Context) ([]model.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Student), args.Error(1)
}

func (m *MockVerificationService) CreateSession(ctx context.Context, target string) (*service.Session, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockVerificationService) View(ctx context.Context, id string) (console.View, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(console.View), args.Error(1)
}

func (m *MockVerificationService) Dispatch(ctx context.Context, id string, a service.Action) (console.View, error) {
	args := m.Called(ctx, id, a)
	return args.Get(0).(console.View), args.Error(1)
}

func (m *MockVerificationService) CloseSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVerificationService) Close() {
	m.Called()
}
