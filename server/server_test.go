package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estateflow/orchestrator/service"
	"github.com/estateflow/orchestrator/store/mem"
	"github.com/estateflow/orchestrator/types"
)

type stubClassifier struct{}

func (stubClassifier) Classify(ctx context.Context, query string) (*types.IntentClassification, error) {
	return &types.IntentClassification{
		Intent:     types.IntentFindListings,
		Slots:      types.Data{"near": "metro"},
		Confidence: 0.9,
	}, nil
}

type stubInvoker struct{}

func (stubInvoker) Invoke(ctx context.Context, task *types.DAGTask, endpoint string, payload types.Data) (types.Data, error) {
	return types.Data{"status": "success", "agent": task.TaskType}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	opts := types.NewOptions()
	opts.SequentialExecution = true
	opts.Routes = map[string]string{
		types.TaskTypeSearchListings:    "http://localhost:9001",
		types.TaskTypeLegalCheck:        "http://localhost:9002",
		types.TaskTypeValuationAnalysis: "http://localhost:9003",
		types.TaskTypeVerificationScan:  "http://localhost:9004",
		types.TaskTypeSummarization:     "http://localhost:9005",
	}
	orc := service.New(stubClassifier{}, stubInvoker{}, mem.NewMemStore(), opts)
	return NewRouter(orc)
}

func TestPostQuery(t *testing.T) {
	router := newTestRouter(t)

	body := `{"query": "plots near metro", "request_id": "req-http-1"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/queries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		JobID  string                 `json:"job_id"`
		Report *types.ExecutionReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "req-http-1", resp.JobID)
	require.NotNil(t, resp.Report)
	assert.Equal(t, types.ReportCompleted, resp.Report.Status)
	assert.Equal(t, 5, resp.Report.Summary.TotalTasks)

	// job record is queryable afterwards
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/jobs/req-http-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var job types.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, types.JobCompleted, job.Status)
}

func TestPostQueryGeneratesRequestID(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/queries", strings.NewReader(`{"query": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["job_id"])
}

func TestPostQueryValidation(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/queries", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostQueryDuplicateConflicts(t *testing.T) {
	router := newTestRouter(t)
	body := `{"query": "plots", "request_id": "req-dup"}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/queries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/queries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetJobNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/jobs/ghost", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetChildrenEmpty(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/jobs/nobody/children", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Jobs []types.Job `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Jobs)
}
