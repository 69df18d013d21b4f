package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stackfold/pkg/model"
)

// MockRunRepository is a mock implementation of repository.RunRepository.
type MockRunRepository struct {
	mock.Mock
}

// SaveRun mocks the SaveRun method.
func (m *MockRunRepository) SaveRun(ctx context.Context, run *model.ConversionRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// RecentRuns mocks the RecentRuns method.
func (m *MockRunRepository) RecentRuns(ctx context.Context, limit int) ([]*model.ConversionRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ConversionRun), args.Error(1)
}

// RunsForInput mocks the RunsForInput method.
func (m *MockRunRepository) RunsForInput(ctx context.Context, inputFile string) ([]*model.ConversionRun, error) {
	args := m.Called(ctx, inputFile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ConversionRun), args.Error(1)
}

// ExpectSaveRun sets up an expectation for SaveRun.
func (m *MockRunRepository) ExpectSaveRun(err error) *mock.Call {
	return m.On("SaveRun", mock.Anything, mock.Anything).Return(err)
}
