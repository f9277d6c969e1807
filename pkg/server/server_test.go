package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sec-tools/policy-atlas/pkg/models/api"
	"github.com/sec-tools/policy-atlas/pkg/models/store"
	"github.com/sec-tools/policy-atlas/pkg/services/catalog"
	scansvc "github.com/sec-tools/policy-atlas/pkg/services/scan"
)

type mockScanStore struct {
	mock.Mock
}

func (m *mockScanStore) Add(ctx context.Context, record store.ScanRecord, findings []store.FindingRecord) error {
	args := m.Called(ctx, record, findings)
	return args.Error(0)
}

func (m *mockScanStore) List(ctx context.Context, limit int) ([]store.ScanRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]store.ScanRecord), args.Error(1)
}

func (m *mockScanStore) Get(ctx context.Context, id string) (store.ScanRecord, []store.FindingRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.ScanRecord), args.Get(1).([]store.FindingRecord), args.Error(2)
}

func setupAPI(t *testing.T, scans *mockScanStore) *httptest.Server {
	cat, err := catalog.Default()
	require.NoError(t, err)

	logger := zerolog.New(io.Discard)
	webAPI := NewWebAPI(logger, Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Dependencies: Dependencies{
			Catalog: cat,
			Targets: scansvc.NewRegistry(),
			Scans:   scans,
		},
	})

	testServer := httptest.NewServer(webAPI.Router())
	t.Cleanup(testServer.Close)
	return testServer
}

func writeScanTarget(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# demo\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("bin/\n"), 0o644))
	return dir
}

func TestWebAPI_ListRules(t *testing.T) {
	scans := new(mockScanStore)
	testServer := setupAPI(t, scans)

	resp, err := http.Get(testServer.URL + "/api/v1/rules")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var rules []api.Rule
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rules))
	assert.Len(t, rules, len(catalog.BuiltinRules()))
	assert.Equal(t, "secrets-in-iac-params", rules[0].ID)
}

func TestWebAPI_RunScan(t *testing.T) {
	scans := new(mockScanStore)
	scans.On("Add", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	testServer := setupAPI(t, scans)

	target := writeScanTarget(t)
	body, _ := json.Marshal(api.ScanRequest{Path: target})

	resp, err := http.Post(testServer.URL+"/api/v1/scans", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var report api.ScanReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, target, report.Target)
	assert.Len(t, report.Findings, len(catalog.BuiltinRules()))

	scans.AssertCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebAPI_RunScan_Errors(t *testing.T) {
	scans := new(mockScanStore)
	testServer := setupAPI(t, scans)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{
			name:           "malformed payload",
			body:           "{not-json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing path",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "target does not exist",
			body:           `{"path": "/definitely/not/a/repo"}`,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(
				testServer.URL+"/api/v1/scans", "application/json", bytes.NewReader([]byte(tc.body)))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
		})
	}
}

func TestWebAPI_ListScans(t *testing.T) {
	scans := new(mockScanStore)
	scans.On("List", mock.Anything, 20).Return([]store.ScanRecord{
		{ID: "scan-1", Target: "/srv/repos/a", Score: 90, Grade: "compliant"},
		{ID: "scan-2", Target: "/srv/repos/b", Score: 55, Grade: "at-risk"},
	}, nil)
	testServer := setupAPI(t, scans)

	resp, err := http.Get(testServer.URL + "/api/v1/scans")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summaries []api.ScanSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summaries))
	require.Len(t, summaries, 2)
	assert.Equal(t, "scan-1", summaries[0].ID)
	assert.Equal(t, "at-risk", summaries[1].Grade)
}

func TestWebAPI_ListScans_BadLimit(t *testing.T) {
	scans := new(mockScanStore)
	testServer := setupAPI(t, scans)

	resp, err := http.Get(testServer.URL + "/api/v1/scans?limit=nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebAPI_GetScan(t *testing.T) {
	scans := new(mockScanStore)
	scans.On("Get", mock.Anything, "scan-1").Return(
		store.ScanRecord{ID: "scan-1", Target: "/srv/repos/a", DurationMs: 120, Score: 75.5, Grade: "needs-work"},
		[]store.FindingRecord{
			{ScanID: "scan-1", Seq: 0, RuleID: "readme-present", Status: "pass"},
			{ScanID: "scan-1", Seq: 1, RuleID: "license-present", Status: "fail"},
		},
		nil,
	)
	scans.On("Get", mock.Anything, "absent").Return(
		store.ScanRecord{}, []store.FindingRecord{}, fmt.Errorf("scan absent not found"))
	testServer := setupAPI(t, scans)

	t.Run("found", func(t *testing.T) {
		resp, err := http.Get(testServer.URL + "/api/v1/scans/scan-1")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var report api.ScanReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.Equal(t, "scan-1", report.ID)
		assert.Equal(t, 75.5, report.Score)
		require.Len(t, report.Findings, 2)
		assert.Equal(t, 1, report.Summary["pass"])
		assert.Equal(t, 1, report.Summary["fail"])
	})

	t.Run("not found", func(t *testing.T) {
		resp, err := http.Get(testServer.URL + "/api/v1/scans/absent")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "not found")
	})
}
