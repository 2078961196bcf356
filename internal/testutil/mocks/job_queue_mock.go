package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueOrphanCleanup() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockJobQueue) EnqueueSessionExpiry() error {
	args := m.Called()
	return args.Error(0)
}
