package mocks

import (
	"context"

	"github.com/brettbedarf/treefs"
	"github.com/stretchr/testify/mock"
)

// MockStore implements treefs.Store for testing across packages
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateFile(path, content string) error {
	return m.Called(path, content).Error(0)
}

func (m *MockStore) ReadFile(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

func (m *MockStore) List(path string) ([]string, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) ListEntries(path string) ([]treefs.DirEntry, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]treefs.DirEntry), args.Error(1)
}

func (m *MockStore) Delete(path string) error {
	return m.Called(path).Error(0)
}

func (m *MockStore) Rename(oldPath, newPath string) error {
	return m.Called(oldPath, newPath).Error(0)
}

func (m *MockStore) Move(oldPath, newPath string) error {
	return m.Called(oldPath, newPath).Error(0)
}

func (m *MockStore) Copy(path, newPath string) error {
	return m.Called(path, newPath).Error(0)
}

func (m *MockStore) Search(name string) []string {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockStore) MakeDir(path string) error {
	return m.Called(path).Error(0)
}

func (m *MockStore) Stat(path string) (treefs.EntryKind, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return 0, args.Error(1)
	}
	return args.Get(0).(treefs.EntryKind), args.Error(1)
}

var _ treefs.Store = (*MockStore)(nil)

// MockContentProvider implements treefs.ContentProvider for testing across packages
type MockContentProvider struct {
	mock.Mock
}

func (m *MockContentProvider) Load(ctx context.Context, config []byte) (string, error) {
	args := m.Called(ctx, config)

	// Handle function return types (for complex tests)
	if fn, ok := args.Get(0).(func(context.Context, []byte) string); ok {
		return fn(ctx, config), args.Error(1)
	}
	return args.String(0), args.Error(1)
}

var _ treefs.ContentProvider = (*MockContentProvider)(nil)
