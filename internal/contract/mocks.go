package contract

import (
	"context"

	"github.com/huangsam/coverdelta/schema"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock type for the GitClient type.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}

// GetChangedFilesBetweenRefs implements the GitClient interface.
func (m *MockGitClient) GetChangedFilesBetweenRefs(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]string, error) {
	ret := m.Called(ctx, repoPath, baseRef, targetRef)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// MockFileLister is a mock type for the FileLister type.
type MockFileLister struct {
	mock.Mock
}

var _ FileLister = &MockFileLister{} // Compile-time check

// ListFiles implements the FileLister interface.
func (m *MockFileLister) ListFiles(ctx context.Context) ([]string, error) {
	ret := m.Called(ctx)
	files, _ := ret.Get(0).([]string)
	return files, ret.Error(1)
}

// MockCoverageLoader is a mock type for the CoverageLoader type.
type MockCoverageLoader struct {
	mock.Mock
}

var _ CoverageLoader = &MockCoverageLoader{} // Compile-time check

// Load implements the CoverageLoader interface.
func (m *MockCoverageLoader) Load(ctx context.Context, path string) (schema.CoverageReport, error) {
	ret := m.Called(ctx, path)
	report, _ := ret.Get(0).(schema.CoverageReport)
	return report, ret.Error(1)
}

// MockPublisher is a mock type for the Publisher type.
type MockPublisher struct {
	mock.Mock
}

var _ Publisher = &MockPublisher{} // Compile-time check

// UpsertComment implements the Publisher interface.
func (m *MockPublisher) UpsertComment(ctx context.Context, prNumber int, body string) error {
	return m.Called(ctx, prNumber, body).Error(0)
}

// CreateCheckRun implements the Publisher interface.
func (m *MockPublisher) CreateCheckRun(ctx context.Context, headSHA string, failed bool, summary string) error {
	return m.Called(ctx, headSHA, failed, summary).Error(0)
}
