// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/spindlefm/spindle/internal/models"
)

// MockPlayer is a test double for [services.Player]
type MockPlayer struct {
	Playback  *models.Playback
	Lists     []models.Playlist
	Err       error
	PlayCalls int
}

func (m *MockPlayer) CurrentPlayback(ctx context.Context) (*models.Playback, error) {
	return m.Playback, m.Err
}

func (m *MockPlayer) Play(ctx context.Context) error {
	m.PlayCalls++
	return m.Err
}

func (m *MockPlayer) Pause(ctx context.Context) error    { return m.Err }
func (m *MockPlayer) Next(ctx context.Context) error     { return m.Err }
func (m *MockPlayer) Previous(ctx context.Context) error { return m.Err }

func (m *MockPlayer) Playlists(ctx context.Context) ([]models.Playlist, error) {
	return m.Lists, m.Err
}

func (m *MockPlayer) Name() string { return "mock" }

// MockStore is an in-memory test double for the auth credential store.
type MockStore struct {
	Cred       *models.Credential
	LoadErr    error
	SaveErr    error
	ClearErr   error
	SaveCalls  int
	ClearCalls int
}

func (s *MockStore) Load(ctx context.Context) (*models.Credential, error) {
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return s.Cred, nil
}

func (s *MockStore) Save(ctx context.Context, cred *models.Credential) error {
	s.SaveCalls++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Cred = cred
	return nil
}

func (s *MockStore) Clear(ctx context.Context) error {
	s.ClearCalls++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.Cred = nil
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
