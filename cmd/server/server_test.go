package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minaret/internal/config"
	"github.com/Nixie-Tech-LLC/minaret/internal/dataset"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/scan"
	"github.com/Nixie-Tech-LLC/minaret/internal/stats"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		StaticDir:     dir,
		DatasetPath:   filepath.Join(dir, "mosques_list.csv"),
		AdhanDuration: 5 * time.Minute,
		InactiveCap:   3000,
	}
}

func newRouter(cfg *config.Config, ds *dataset.Dataset) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, cfg, ds, scan.New(scan.DefaultConfig(), scan.RandomSampler{}), stats.New(stats.DefaultConfig()))
	return r
}

func TestRoutesServeIndex(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.StaticDir, "index.html"), []byte("<html>map</html>"), 0o644))
	r := newRouter(cfg, dataset.Empty())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "map")
}

func TestRoutesWithoutIndex(t *testing.T) {
	r := newRouter(testConfig(t), dataset.Empty())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutesCORS(t *testing.T) {
	r := newRouter(testConfig(t), dataset.FromRows([]model.Mosque{{Name: "A", Lat: 21.4, Lon: 39.8}}))

	req := httptest.NewRequest(http.MethodGet, "/api/get_adhans", nil)
	req.Header.Set("Origin", "https://example.org")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestLoadDatasetLocalFile(t *testing.T) {
	cfg := testConfig(t)
	csv := "name,lat,lon\nA,21.4,39.8\nB,51.5,-0.1\n"
	require.NoError(t, os.WriteFile(cfg.DatasetPath, []byte(csv), 0o644))

	ds, closeFn, err := LoadDataset(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, "file://"+cfg.DatasetPath, ds.Source())
}

func TestLoadDatasetMissingFileIsEmpty(t *testing.T) {
	ds, closeFn, err := LoadDataset(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, 0, ds.Len())
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: addr, Handler: http.NotFoundHandler()}
	done := make(chan error, 1)
	go func() { done <- run(ctx, srv) }()

	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeReturnsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig(t)
	cfg.ServerAddress = ln.Addr().String()

	done := make(chan error, 1)
	go func() { done <- serve(context.Background(), cfg) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return on a listen error")
	}
}
