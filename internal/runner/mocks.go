package runner

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRunner is a testify mock used by packages that shell out through a Runner.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	callArgs := m.Called(ctx, name, args)
	return callArgs.Get(0).(Result), callArgs.Error(1)
}
