package vcs

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockVCSClient struct {
	mock.Mock
}

func (m *MockVCSClient) IsInstalled(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockVCSClient) LatestCommit(ctx context.Context, branch string) (string, bool, error) {
	args := m.Called(ctx, branch)
	return args.String(0), args.Bool(1), args.Error(2)
}
