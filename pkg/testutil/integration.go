package testutil

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ScanSuite is the base of end-to-end scan tests: it owns a context, a
// temp directory for outputs and a gviz server.
type ScanSuite struct {
	suite.Suite
	ctx       context.Context
	cancel    context.CancelFunc
	tempDir   string
	startTime time.Time

	Server *GvizServer
}

// SetupSuite runs before all tests in the suite
func (s *ScanSuite) SetupSuite() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 2*time.Minute)
	s.startTime = time.Now()

	tempDir, err := os.MkdirTemp("", "sheetsfdw-test-*")
	require.NoError(s.T(), err)
	s.tempDir = tempDir

	s.Server = NewGvizServer(s.T(), GvizBody(s.T()))
}

// TearDownSuite runs after all tests in the suite
func (s *ScanSuite) TearDownSuite() {
	s.cancel()
	if s.tempDir != "" {
		_ = os.RemoveAll(s.tempDir)
	}
	s.T().Logf("scan suite completed in %v", time.Since(s.startTime))
}

// Context returns the suite context
func (s *ScanSuite) Context() context.Context {
	return s.ctx
}

// TempFile returns a path inside the suite temp directory
func (s *ScanSuite) TempFile(name string) string {
	return filepath.Join(s.tempDir, name)
}

// ReadFile returns the content of a file, failing the test on error
func (s *ScanSuite) ReadFile(path string) string {
	data, err := os.ReadFile(path)
	require.NoError(s.T(), err)
	return string(data)
}
