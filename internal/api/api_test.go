package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"CricBase/internal/model"
	"CricBase/internal/repository"
	"CricBase/internal/service"
)

// blockingSource 在 release 关闭前阻塞，用于制造规范库占用
type blockingSource struct {
	started   chan struct{}
	release   chan struct{}
	summaries []model.ScrapedSummary
}

func (s *blockingSource) Name() string { return "stub" }
func (s *blockingSource) FetchSummaries(ctx context.Context, _ model.Period) ([]model.ScrapedSummary, error) {
	if s.started != nil {
		close(s.started)
		<-s.release
	}
	return s.summaries, nil
}

type testServer struct {
	router *gin.Engine
	dir    string
}

func newTestServer(t *testing.T, source *blockingSource) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	dsn := filepath.Join(t.TempDir(), "cricbase.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	dir := t.TempDir()
	raw, err := os.ReadFile("../adapter/cricsheet/testdata/1000001.json")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1000001.json"), raw, 0o644))

	resolver := service.NewResolver("auto", repository.NewReferenceRepository(db), log)
	ingest := service.NewIngestService(db, resolver, nil, log)
	reconcile := service.NewReconcileService(db, source, nil, log)
	syncService := service.NewSyncService(db, ingest, reconcile, log)

	r := gin.New()
	RegisterRoutes(r, db, syncService, dir, log)
	return &testServer{router: r, dir: dir}
}

func (s *testServer) do(method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestIngestThenQuery(t *testing.T) {
	s := newTestServer(t, &blockingSource{})

	w := s.do(http.MethodPost, "/sync/ingest")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode(t, w)["loaded"])

	w = s.do(http.MethodGet, "/api/stats/batting/r1")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "RG Sharma", body["name"])
	assert.EqualValues(t, 5, body["career"].(map[string]any)["runs"])

	w = s.do(http.MethodGet, "/api/stats/bowling/w1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["career"].(map[string]any)["wickets"])

	w = s.do(http.MethodGet, "/api/matches/1000001/summary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "India Men won by 9 runs", decode(t, w)["result"])

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/stats/batting/nobody").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/matches/42/summary").Code)

	w = s.do(http.MethodGet, "/api/integrity")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ok"])

	w = s.do(http.MethodGet, "/api/runs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["items"], 1)
}

func TestReconcileHandler(t *testing.T) {
	s := newTestServer(t, &blockingSource{summaries: []model.ScrapedSummary{{
		ExternalID: "9", Date: "2024-03-09", Team1: "Nepal Men", Team2: "Oman Men",
		ResultText: "No Result", TossText: "Toss Info Missing/No Toss",
	}}})

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/sync/reconcile?from=March").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPost, "/sync/reconcile?from=2024-03&to=2024-01").Code)

	w := s.do(http.MethodPost, "/sync/reconcile?from=2024-03")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode(t, w)["missing"])

	w = s.do(http.MethodGet, "/api/backlog?page=1&page_size=500")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["total"])
	assert.EqualValues(t, 20, body["page_size"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "9", items[0].(map[string]any)["external_id"])
}

func TestStoreBusyIsConflict(t *testing.T) {
	src := &blockingSource{started: make(chan struct{}), release: make(chan struct{})}
	s := newTestServer(t, src)

	done := make(chan int)
	go func() {
		done <- s.do(http.MethodPost, "/sync/reconcile?from=2024-03").Code
	}()
	<-src.started

	assert.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/sync/ingest").Code)
	close(src.release)
	// 源没有数据，对账跳过
	assert.Equal(t, http.StatusOK, <-done)
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/sync/ingest").Code)
}
