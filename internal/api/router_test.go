package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oracles-wisper/wisper-backend-go/internal/config"
	"github.com/oracles-wisper/wisper-backend-go/internal/database"
	"github.com/oracles-wisper/wisper-backend-go/internal/handler"
	"github.com/oracles-wisper/wisper-backend-go/internal/middleware"
	"github.com/oracles-wisper/wisper-backend-go/internal/models"
	"github.com/oracles-wisper/wisper-backend-go/internal/repository"
	"github.com/oracles-wisper/wisper-backend-go/internal/service"
)

var (
	testRouter *gin.Engine
	testCfg    *config.Config
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	dir, err := os.MkdirTemp("", "wisper-api-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)

	testCfg = &config.Config{
		Port:      ":0",
		DBPath:    filepath.Join(dir, "test.db"),
		JWTSecret: "test-secret",
		RawDir:    filepath.Join(dir, "raw"),
		CalDir:    filepath.Join(dir, "cal"),
		MergeDir:  filepath.Join(dir, "merge"),
		Level3Dir: filepath.Join(dir, "level3"),
	}

	if err := database.Init(database.Config{Path: testCfg.DBPath}); err != nil {
		panic(err)
	}
	mgr := database.NewMigrationManager(database.GetDB(), "../../migrations")
	if err := mgr.RunMigrations(); err != nil {
		panic(err)
	}

	db := database.GetDB()
	samples := repository.NewSampleRepository(db)
	l3Repo := repository.NewLevel3Repository(db)

	// Seed one flight with a couple of samples.
	nan := math.NaN()
	seed := []models.CalSample{
		{FlightDate: "20170815", Year: 2017, StartUTC: 38000,
			H2OTot1: 9500, DDTot1: -75, D18OTot1: -11,
			H2OTot2: nan, DDTot2: nan, D18OTot2: nan,
			H2OCld: nan, DDCld: nan, D18OCld: nan, CVIEnhance: nan,
			SigDD: 4.1, SigD18O: 0.8,
			QCTot: models.QCValid, QCCld: models.QCInvalid, TableVersion: "R2"},
		{FlightDate: "20170815", Year: 2017, StartUTC: 38001,
			H2OTot1: 9480, DDTot1: -75.2, D18OTot1: -11.1,
			H2OTot2: nan, DDTot2: nan, D18OTot2: nan,
			H2OCld: nan, DDCld: nan, D18OCld: nan, CVIEnhance: nan,
			SigDD: 4.1, SigD18O: 0.8,
			QCTot: models.QCValid, QCCld: models.QCInvalid, TableVersion: "R2"},
	}
	if err := samples.ReplaceFlight("20170815", seed); err != nil {
		panic(err)
	}

	cal, err := service.NewCalibrationService(testCfg, samples)
	if err != nil {
		panic(err)
	}
	products := service.NewProductService(samples, l3Repo)
	l3 := service.NewLevel3Service(testCfg, samples, l3Repo)

	testRouter = SetupRouter(testCfg, Handlers{
		Flights: handler.NewFlightHandler(products),
		Series:  handler.NewSeriesHandler(products),
		Level3:  handler.NewLevel3Handler(products),
		Runs:    handler.NewRunHandler(cal, l3),
	})

	code := m.Run()
	database.Close()
	os.Exit(code)
}

func doRequest(t *testing.T, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	testRouter.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := doRequest(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestListFlights(t *testing.T) {
	w := doRequest(t, http.MethodGet, "/api/v1/flights", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Data struct {
			Count   int `json:"count"`
			Flights []struct {
				Date        string `json:"date"`
				SampleCount int64  `json:"sampleCount"`
			} `json:"data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Count != 32 {
		t.Errorf("count = %d, want 32", body.Data.Count)
	}
	for _, f := range body.Data.Flights {
		if f.Date == "20170815" && f.SampleCount != 2 {
			t.Errorf("20170815 sample count = %d, want 2", f.SampleCount)
		}
	}
}

func TestListFlightsByYear(t *testing.T) {
	w := doRequest(t, http.MethodGet, "/api/v1/flights?year=2018", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"count":11`) {
		t.Errorf("body = %s", w.Body.String())
	}

	w = doRequest(t, http.MethodGet, "/api/v1/flights?year=2020", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status for bad year = %d, want 400", w.Code)
	}
}

func TestGetSeries(t *testing.T) {
	w := doRequest(t, http.MethodGet, "/api/v1/flights/20170815/series", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Data models.SeriesResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Total != 2 || len(body.Data.Data) != 2 {
		t.Errorf("total = %d, rows = %d, want 2 and 2", body.Data.Total, len(body.Data.Data))
	}
	// NULL columns come back as null, not NaN.
	if !strings.Contains(w.Body.String(), `"h2oTot2":null`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGetSeriesUnknownFlight(t *testing.T) {
	w := doRequest(t, http.MethodGet, "/api/v1/flights/20170816/series", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetCurtain(t *testing.T) {
	w := doRequest(t, http.MethodGet, "/api/v1/curtains/2017", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = doRequest(t, http.MethodGet, "/api/v1/curtains/2020", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status for bad year = %d, want 404", w.Code)
	}

	w = doRequest(t, http.MethodGet, "/api/v1/curtains/later", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status for non-integer year = %d, want 400", w.Code)
	}
}

func TestGetProfiles(t *testing.T) {
	w := doRequest(t, http.MethodGet, "/api/v1/flights/20170815/profiles", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"count":0`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRunsRequireToken(t *testing.T) {
	w := doRequest(t, http.MethodPost, "/api/v1/runs/calibrate", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token = %d, want 401", w.Code)
	}

	w = doRequest(t, http.MethodPost, "/api/v1/runs/calibrate", map[string]string{
		"Authorization": "Bearer not-a-token",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status with garbage token = %d, want 401", w.Code)
	}

	wrong, err := middleware.SignToken("other-secret", "operator", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	w = doRequest(t, http.MethodPost, "/api/v1/runs/calibrate", map[string]string{
		"Authorization": "Bearer " + wrong,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status with wrong secret = %d, want 401", w.Code)
	}
}

func TestRunCalibrateWithToken(t *testing.T) {
	token, err := middleware.SignToken(testCfg.JWTSecret, "operator", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	// No raw files exist, so every flight is skipped, which still counts
	// as a successful run.
	w := doRequest(t, http.MethodPost, "/api/v1/runs/calibrate", map[string]string{
		"Authorization": "Bearer " + token,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	w := doRequest(t, http.MethodOptions, "/api/v1/flights", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
