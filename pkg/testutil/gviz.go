package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	jsonpool "github.com/ajitpratap0/sheetsfdw/pkg/json"
	"github.com/stretchr/testify/require"
)

// GvizPrefix guards every gviz JSON response
const GvizPrefix = ")]}'\n"

// GvizBody renders rows as a gviz JSON response. A nil value becomes a
// null cell marker; any other value is wrapped as {"v": value}.
func GvizBody(t testing.TB, rows ...[]interface{}) string {
	t.Helper()

	records := make([]map[string]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			if v != nil {
				cells[j] = map[string]interface{}{"v": v}
			}
		}
		records[i] = map[string]interface{}{"c": cells}
	}

	doc := map[string]interface{}{
		"version": "0.6",
		"status":  "ok",
		"table":   map[string]interface{}{"rows": records},
	}
	data, err := jsonpool.Marshal(doc)
	require.NoError(t, err)
	return GvizPrefix + string(data)
}

// GvizServer serves a fixed body on every path and records request paths.
type GvizServer struct {
	*httptest.Server

	mu    sync.Mutex
	body  string
	paths []string
}

// NewGvizServer starts a server answering with body. It is closed when the
// test completes.
func NewGvizServer(t testing.TB, body string) *GvizServer {
	s := &GvizServer{body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *GvizServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.paths = append(s.paths, r.URL.Path)
	body := s.body
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

// SetBody replaces the body served from now on.
func (s *GvizServer) SetBody(body string) {
	s.mu.Lock()
	s.body = body
	s.mu.Unlock()
}

// Paths returns the request paths seen so far.
func (s *GvizServer) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// BaseURL is the base_url option pointing at the server.
func (s *GvizServer) BaseURL() string {
	return strings.TrimSuffix(s.URL, "/") + "/spreadsheets/d"
}
