package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayanta8509/TAX-MCP/internal/catalog"
	"github.com/jayanta8509/TAX-MCP/internal/logging"
	"github.com/jayanta8509/TAX-MCP/internal/repository"
	"github.com/jayanta8509/TAX-MCP/internal/services"
	"github.com/jayanta8509/TAX-MCP/internal/session"
	"github.com/jayanta8509/TAX-MCP/internal/workflow"
	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	records := repository.NewMemoryRecordStore()
	records.PutRecord(8, models.ReferenceIndividual, map[string]string{
		"full_legal_name": "Robert SEBASTIAO Da Elvis",
		"date_of_birth":   "1985-03-14",
	})
	logger := logging.NewLogger()
	engine := workflow.NewEngine(catalog.New(), records, session.NewMemoryStore(), logger)
	assistant := services.NewAssistant(engine, records, logger)

	e := echo.New()
	e.HTTPErrorHandler = ProblemErrorHandler
	NewServer(engine, assistant, records).RegisterRoutes(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)
	rec := doJSON(t, e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestStartNextStatusFlow(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/workflow/start",
		`{"user_id":"u1","client_id":8,"reference":"individual"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var start workflow.StartResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &start))
	assert.Equal(t, models.StatusActive, start.Status)
	assert.Equal(t, "1.1", start.Question.ID)
	assert.Equal(t, "Robert SEBASTIAO Da Elvis", start.CurrentAnswer.Value)

	rec = doJSON(t, e, http.MethodPost, "/workflow/next",
		`{"user_id":"u1","confirmed":false,"new_value":"Jane Smith"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var next workflow.NextResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &next))
	assert.Equal(t, "1.2", next.Question.ID)
	assert.Equal(t, "Jane Smith", next.PreviousAnswerSaved.Value)

	rec = doJSON(t, e, http.MethodGet, "/workflow/status/u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var st workflow.StatusResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "1.2", st.CurrentQuestion.ID)
	assert.Equal(t, 1, st.AnswersCollected)
}

func TestErrorMapping(t *testing.T) {
	e := newTestServer(t)

	// no session yet
	rec := doJSON(t, e, http.MethodPost, "/workflow/next", `{"user_id":"ghost","confirmed":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get(echo.HeaderContentType))

	// invalid reference
	rec = doJSON(t, e, http.MethodPost, "/workflow/start",
		`{"user_id":"u1","client_id":8,"reference":"trust"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// missing new value
	rec = doJSON(t, e, http.MethodPost, "/workflow/start",
		`{"user_id":"u1","client_id":8,"reference":"individual"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, e, http.MethodPost, "/workflow/next", `{"user_id":"u1","confirmed":false}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/chat",
		`{"user_id":"u1","client_id":8,"reference":"individual","message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var reply services.ChatReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	assert.Contains(t, reply.Message, "Welcome, Robert.")
	assert.Contains(t, reply.Message, "Is this correct?")
}

func TestProfileEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodGet, "/client/individual/8/profile", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var profile repository.BasicProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "Robert SEBASTIAO Da Elvis", profile.DisplayName)
	assert.Equal(t, models.ReferenceIndividual, profile.Reference)

	rec = doJSON(t, e, http.MethodGet, "/client/trust/8/profile", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, e, http.MethodGet, "/client/individual/999/profile", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWelcomeEndpoint(t *testing.T) {
	e := newTestServer(t)

	rec := doJSON(t, e, http.MethodPost, "/welcome/message",
		`{"client_id":8,"reference":"individual"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome, Robert.")

	rec = doJSON(t, e, http.MethodPost, "/welcome/message",
		`{"client_id":999,"reference":"individual"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
