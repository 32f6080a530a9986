package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/masnyjimmy/campaign-validator/src/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUrls(t *testing.T) {
	assert.Equal(t, urls{UI: "/", Report: "/report.json", Events: "/events"}, makeUrls("/"))
	assert.Equal(t, urls{UI: "/validator", Report: "/validator/report.json", Events: "/validator/events"}, makeUrls("validator/"))
}

func TestServeReport(t *testing.T) {
	s := New(DefaultOptions())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/report.json")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, "null", string(body))

	report := &runner.Report{
		RunID:   uuid.New(),
		Files:   []runner.FileResult{{Name: "a.json", Valid: false, Message: "At 'root': boom"}},
		Summary: runner.Summary{Invalid: 1, Total: 1},
	}
	require.NoError(t, s.SetReport(report))

	res, err = http.Get(ts.URL + "/report.json")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var got runner.Report
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, report.RunID, got.RunID)
	assert.Equal(t, report.Summary, got.Summary)
	assert.Equal(t, "a.json", got.Files[0].Name)
}

func TestServeUI(t *testing.T) {
	ts := httptest.NewServer(New(DefaultOptions()).Handler())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	body, _ := io.ReadAll(res.Body)
	assert.Contains(t, string(body), "Campaign JSON Validator")
}

func TestCORS(t *testing.T) {
	opt := DefaultOptions()
	opt.AllowedOrigins = []string{"http://localhost:3000"}
	ts := httptest.NewServer(New(opt).Handler())
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/report.json", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "http://localhost:3000", res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func openEvents(t *testing.T, ctx context.Context, url string) *bufio.Reader {
	t.Helper()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url+"/events", nil)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })

	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	reader := bufio.NewReader(res.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ":ok\n", line)

	return reader
}

// readEvent returns the name and decoded data of the next event.
func readEvent(t *testing.T, reader *bufio.Reader) (string, runner.Report) {
	t.Helper()

	var name, data string
	for name == "" || data == "" {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)

		if value, ok := strings.CutPrefix(line, "event: "); ok {
			name = value
		}
		if value, ok := strings.CutPrefix(line, "data: "); ok {
			data = value
		}
	}

	var report runner.Report
	require.NoError(t, json.Unmarshal([]byte(data), &report))
	return name, report
}

func TestEventsStreamReports(t *testing.T) {
	s := New(DefaultOptions())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reader := openEvents(t, ctx, ts.URL)
	require.Eventually(t, func() bool { return s.broadcaster.count() == 1 }, time.Second, 10*time.Millisecond)

	report := &runner.Report{
		RunID:   uuid.New(),
		Files:   []runner.FileResult{{Name: "a.json", Valid: true}},
		Summary: runner.Summary{Valid: 1, Total: 1},
	}
	require.NoError(t, s.SetReport(report))

	name, got := readEvent(t, reader)
	assert.Equal(t, "report", name)
	assert.Equal(t, report.RunID, got.RunID)
	assert.Equal(t, report.Summary, got.Summary)
	assert.Equal(t, "a.json", got.Files[0].Name)
}

func TestEventsReplayLatestReport(t *testing.T) {
	s := New(DefaultOptions())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	report := &runner.Report{RunID: uuid.New(), Summary: runner.Summary{Invalid: 2, Total: 2}}
	require.NoError(t, s.SetReport(report))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	name, got := readEvent(t, openEvents(t, ctx, ts.URL))
	assert.Equal(t, "report", name)
	assert.Equal(t, report.RunID, got.RunID)
	assert.Equal(t, 2, got.Summary.Invalid)
}
