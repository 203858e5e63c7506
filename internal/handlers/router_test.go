package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/challenge-service/internal/cache"
	"github.com/SAP-F-2025/challenge-service/internal/events"
	"github.com/SAP-F-2025/challenge-service/internal/models"
	"github.com/SAP-F-2025/challenge-service/internal/repositories"
	"github.com/SAP-F-2025/challenge-service/internal/services"
	"github.com/SAP-F-2025/challenge-service/internal/session"
	"github.com/SAP-F-2025/challenge-service/internal/utils"
	"github.com/SAP-F-2025/challenge-service/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu       sync.Mutex
	projects map[string]*models.Project
}

func (s *memoryStore) Load(ctx context.Context) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *memoryStore) Save(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project.Clone()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

type memoryCache struct {
	mu      sync.Mutex
	results []models.SessionResult
}

func (c *memoryCache) Set(ctx context.Context, result models.SessionResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
	return nil
}

func (c *memoryCache) Get(ctx context.Context, sessionID string) (*models.SessionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.results {
		if r.SessionID == sessionID {
			return &r, nil
		}
	}
	return nil, cache.ErrCacheMiss
}

func (c *memoryCache) ListByTest(ctx context.Context, testID string) ([]models.SessionResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.SessionResult
	for _, r := range c.results {
		if r.TestID == testID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *memoryCache) Delete(ctx context.Context, sessionID string) error {
	return nil
}

type testServer struct {
	router *gin.Engine
	clock  *session.ManualClock
}

func newTestServer(t *testing.T, tokenParser TokenParser) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogger)
	v := validator.New()
	publisher := events.NewMockEventPublisher(slogger)
	clock := session.NewManualClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	projects := services.NewProjectService(&memoryStore{projects: map[string]*models.Project{}}, publisher, slogger, v)
	require.NoError(t, projects.Load(context.Background()))
	play := services.NewPlayService(projects, &memoryCache{}, publisher, slogger, v, services.WithPlayClock(clock))
	t.Cleanup(play.Shutdown)
	importExport := services.NewImportExportService(projects, play, slogger, v)

	router := gin.New()
	NewHandlerManager(projects, play, importExport, v, tokenParser, logger).SetupRoutes(router)
	return &testServer{router: router, clock: clock}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// seed creates a project with one test holding a true-or-false challenge.
func (s *testServer) seed(t *testing.T) (projectID, testID, challengeID string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/v1/projects", models.CreateProjectRequest{Name: "Science"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	projectID = decode[models.Project](t, w).ID

	w = s.do(t, http.MethodPost, "/api/v1/projects/"+projectID+"/tests", models.CreateTestRequest{Name: "Planets"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	testID = decode[models.Test](t, w).ID

	w = s.do(t, http.MethodPost, "/api/v1/projects/"+projectID+"/tests/"+testID+"/challenges",
		models.CreateChallengeRequest{Type: models.TypeTrueOrFalse, Question: "Mars is red"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	challengeID = decode[models.Challenge](t, w).ID
	return projectID, testID, challengeID
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "challenge-service")
}

func TestProjectRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	projectID, testID, challengeID := s.seed(t)

	t.Run("get project", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/projects/"+projectID, nil)
		require.Equal(t, http.StatusOK, w.Code)
		project := decode[models.Project](t, w)
		require.Len(t, project.Tests, 1)
		assert.Len(t, project.Tests[0].Challenges, 1)
	})

	t.Run("unknown project", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/projects/missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid create payload", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/projects", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = s.do(t, http.MethodPost, "/api/v1/projects", models.CreateProjectRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Validation failed")
	})

	t.Run("update challenge", func(t *testing.T) {
		ch, err := models.NewChallenge(challengeID, models.TypeTrueOrFalse)
		require.NoError(t, err)
		ch.Question = "Mars is blue"
		content := ch.Content.(models.TrueOrFalseContent)
		content.Answer = false
		ch.Content = content

		w := s.do(t, http.MethodPut, "/api/v1/projects/"+projectID+"/tests/"+testID+"/challenges/"+challengeID, ch)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Mars is blue", decode[models.Challenge](t, w).Question)
	})

	t.Run("changing the type is refused", func(t *testing.T) {
		ch, err := models.NewChallenge(challengeID, models.TypeSort)
		require.NoError(t, err)
		w := s.do(t, http.MethodPut, "/api/v1/projects/"+projectID+"/tests/"+testID+"/challenges/"+challengeID, ch)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("reorder mismatch", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/v1/projects/"+projectID+"/tests/reorder", models.ReorderRequest{IDs: []string{"x"}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("export test as xlsx", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/projects/"+projectID+"/tests/"+testID+"/export", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, contentTypeXLSX, w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Body.Bytes())
	})

	t.Run("export and import project", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/v1/projects/"+projectID+"/export", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodPost, "/api/v1/projects/import", w.Body.String())
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		summary := decode[models.ImportSummary](t, w)
		assert.NotEqual(t, projectID, summary.ProjectID)
		assert.Equal(t, 1, summary.TotalChallenges)
	})

	t.Run("delete project", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/v1/projects/"+projectID, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		w = s.do(t, http.MethodGet, "/api/v1/projects/"+projectID, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDesignerRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("toggle gap", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/designer/gaps/toggle", models.ToggleGapRequest{
			Sentence: models.Sentence{Text: "The cat sat on the mat.", HiddenExpressions: []models.HiddenExpression{}},
			Word:     1,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		sentence := decode[models.Sentence](t, w)
		require.Len(t, sentence.HiddenExpressions, 1)
		assert.Equal(t, 1, sentence.HiddenExpressions[0].InitPosition)
	})

	t.Run("toggle gap out of range", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/designer/gaps/toggle", models.ToggleGapRequest{
			Sentence: models.Sentence{Text: "Short."},
			Word:     5,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validate reports content errors", func(t *testing.T) {
		ch, err := models.NewChallenge("c", models.TypeSelectAnswer)
		require.NoError(t, err)
		w := s.do(t, http.MethodPost, "/api/v1/designer/validate", ch)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[ValidateResponse](t, w)
		assert.False(t, resp.Valid)
		assert.NotEmpty(t, resp.Errors)
	})

	t.Run("reshape", func(t *testing.T) {
		ch, err := models.NewChallenge("c", models.TypeSort)
		require.NoError(t, err)
		content := ch.Content.(models.SortContent)
		content.Config.ItemCount = 5
		ch.Content = content

		w := s.do(t, http.MethodPost, "/api/v1/designer/reshape", ch)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		reshaped := decode[models.Challenge](t, w)
		assert.Len(t, reshaped.Content.(models.SortContent).Items, 5)
	})
}

func TestSessionRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	_, testID, challengeID := s.seed(t)

	w := s.do(t, http.MethodPost, "/api/v1/sessions", models.StartSessionRequest{TestID: testID, ChallengeID: challengeID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sessionID := decode[map[string]any](t, w)["id"].(string)

	w = s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/check", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/actions", `{"type":"teleport"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/actions", `{"type":"selectOption","index":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/sessions/"+sessionID+"/actions", `{"type":"chooseBoolean","value":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, string(models.SessionSuccess), decode[map[string]any](t, w)["status"])

	s.clock.Advance(session.DefaultResultDelay)

	w = s.do(t, http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/sessions/"+sessionID+"/result", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.SessionSuccess, decode[models.SessionResult](t, w).Status)

	w = s.do(t, http.MethodGet, "/api/v1/tests/"+testID+"/results", nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[models.TestResult](t, w)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 1, result.Total)

	w = s.do(t, http.MethodGet, "/api/v1/tests/"+testID+"/results/export?format=csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), sessionID)

	w = s.do(t, http.MethodGet, "/api/v1/tests/"+testID+"/results/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionRoutes_CloseAbandons(t *testing.T) {
	s := newTestServer(t, nil)
	_, testID, challengeID := s.seed(t)

	w := s.do(t, http.MethodPost, "/api/v1/sessions", models.StartSessionRequest{TestID: testID, ChallengeID: challengeID})
	require.Equal(t, http.StatusCreated, w.Code)
	sessionID := decode[map[string]any](t, w)["id"].(string)

	w = s.do(t, http.MethodDelete, "/api/v1/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/sessions/"+sessionID+"/result", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthMiddleware(t *testing.T) {
	parser := func(token string) (Identity, error) {
		if token != "good" {
			return Identity{}, errors.New("bad signature")
		}
		return Identity{UserID: "u1", Name: "ada"}, nil
	}
	s := newTestServer(t, parser)

	w := s.do(t, http.MethodGet, "/api/v1/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/projects", nil, "Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/projects", nil, "Authorization", "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)

	// play routes stay open
	w = s.do(t, http.MethodGet, "/api/v1/sessions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
