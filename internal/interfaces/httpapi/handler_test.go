package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/rucktrack/rucktrack/internal/domain/game"
	"github.com/rucktrack/rucktrack/internal/domain/match"
	"github.com/rucktrack/rucktrack/internal/infrastructure/repository/memory"
	"github.com/rucktrack/rucktrack/internal/platform/id"
	"github.com/rucktrack/rucktrack/internal/platform/logging"
	"github.com/rucktrack/rucktrack/internal/usecase"
)

const testAPIKey = "test-api-key"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	gen := id.NewServerGenerator()
	gameService := usecase.NewGameService(memory.NewGameRepository(), gen, logger)
	matchService := usecase.NewMatchService(memory.NewMatchRepository(), gen, logger)
	handler := NewHandler(gameService, matchService, nil, logger)

	return NewRouter(handler, RouterConfig{
		APIKey:          testAPIKey,
		RateLimitWindow: time.Minute,
		RateLimitMax:    1000,
	}, logger)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, withKey bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if withKey {
		req.Header.Set("X-API-Key", testAPIKey)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := sonic.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthIsOpen(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body healthResponse
	decodeInto(t, rec, &body)
	if body.Status != "ok" {
		t.Fatalf("status field = %q, want ok", body.Status)
	}
}

func TestHealthDBReportsMemoryStorage(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/health/db", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	decodeInto(t, rec, &body)
	if body["storage"] != "memory" {
		t.Fatalf("storage = %q, want memory", body["storage"])
	}
}

func TestGamesRequireAPIKey(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/games", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	var body errorEnvelope
	decodeInto(t, rec, &body)
	if body.Message == "" {
		t.Fatal("expected an error message in the body")
	}
}

func TestBearerTokenAccepted(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestUnconfiguredAPIKeyRefusesTraffic(t *testing.T) {
	logger := logging.NewNop()
	gen := id.NewServerGenerator()
	handler := NewHandler(
		usecase.NewGameService(memory.NewGameRepository(), gen, logger),
		usecase.NewMatchService(memory.NewMatchRepository(), gen, logger),
		nil, logger,
	)
	router := NewRouter(handler, RouterConfig{APIKey: ""}, logger)

	rec := doRequest(t, router, http.MethodGet, "/api/games", "", false)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	decodeInto(t, rec, &body)
	if body.Message != "server configuration error" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestCreateAndFetchGame(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"home":{"name":"Lions"},"away":{"name":"Sharks"}}`
	rec := doRequest(t, router, http.MethodPost, "/api/games", payload, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created game.Game
	decodeInto(t, rec, &created)
	if !id.LooksLikeServerID(created.ID) {
		t.Fatalf("id = %q, want 24-char hex", created.ID)
	}
	if created.Status != game.StatusActive {
		t.Fatalf("status = %q, want active by default", created.Status)
	}

	rec = doRequest(t, router, http.MethodGet, "/api/games/"+created.ID, "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}

	var fetched game.Game
	decodeInto(t, rec, &fetched)
	if fetched.ID != created.ID || fetched.Home.Name != "Lions" {
		t.Fatalf("unexpected game %+v", fetched)
	}
}

func TestCreateGameRejectsMissingTeams(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/games", `{"home":{"name":""},"away":{"name":"Sharks"}}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUpdateGameRejectsLeavingCompleted(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"home":{"name":"Lions"},"away":{"name":"Sharks"},"status":"completed"}`
	rec := doRequest(t, router, http.MethodPost, "/api/games", payload, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created game.Game
	decodeInto(t, rec, &created)

	update := `{"home":{"name":"Lions"},"away":{"name":"Sharks"},"status":"active"}`
	rec = doRequest(t, router, http.MethodPut, "/api/games/"+created.ID, update, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteAllGamesOnEmptyCollection(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodDelete, "/api/games", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body messageEnvelope
	decodeInto(t, rec, &body)
	if body.Deleted == nil || *body.Deleted != 0 {
		t.Fatalf("deleted = %v, want 0", body.Deleted)
	}
}

func TestGameStatsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	completed := `{"home":{"name":"Lions","score":10},"away":{"name":"Sharks","score":3},"status":"completed"}`
	if rec := doRequest(t, router, http.MethodPost, "/api/games", completed, true); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	// Still in progress, so it must count towards totals but not averages.
	active := `{"home":{"name":"Bulls"},"away":{"name":"Stormers"}}`
	if rec := doRequest(t, router, http.MethodPost, "/api/games", active, true); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	rec := doRequest(t, router, http.MethodGet, "/api/games/stats", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var stats game.Stats
	decodeInto(t, rec, &stats)
	if stats.Total != 2 || stats.Completed != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.AvgHomeScore != 10 {
		t.Fatalf("avg home score = %v, want 10", stats.AvgHomeScore)
	}
	if stats.AvgAwayScore != 3 {
		t.Fatalf("avg away score = %v, want 3", stats.AvgAwayScore)
	}
}

func TestCreateMatchRejectsUnknownType(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"homeTeam":"A","awayTeam":"B","matchType":"veterans"}`
	rec := doRequest(t, router, http.MethodPost, "/api/matches", payload, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestMatchLifecycle(t *testing.T) {
	router := newTestRouter(t)

	payload := `{"homeTeam":"Harlequins U14","awayTeam":"Wasps U14","matchType":"boys","teamCategory":"youths-boys","kickoffAt":"2026-09-12T14:00:00Z"}`
	rec := doRequest(t, router, http.MethodPost, "/api/matches", payload, true)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created match.Match
	decodeInto(t, rec, &created)
	if created.Status != match.StatusScheduled {
		t.Fatalf("status = %q, want scheduled by default", created.Status)
	}

	update := `{"homeTeam":"Harlequins U14","awayTeam":"Wasps U14","matchType":"boys","teamCategory":"youths-boys","kickoffAt":"2026-09-12T14:00:00Z","status":"completed","homeScore":22,"awayScore":17}`
	rec = doRequest(t, router, http.MethodPut, "/api/matches/"+created.ID, update, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodDelete, "/api/matches/"+created.ID, "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/api/matches/"+created.ID, "", true)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestDeleteMatchMalformedID(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodDelete, "/api/matches/not-a-server-id", "", true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownRouteReturnsJSON(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/nope", "", false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var body errorEnvelope
	decodeInto(t, rec, &body)
	if body.Message != "route not found" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestRateLimitKicksIn(t *testing.T) {
	logger := logging.NewNop()
	gen := id.NewServerGenerator()
	handler := NewHandler(
		usecase.NewGameService(memory.NewGameRepository(), gen, logger),
		usecase.NewMatchService(memory.NewMatchRepository(), gen, logger),
		nil, logger,
	)
	router := NewRouter(handler, RouterConfig{
		APIKey:          testAPIKey,
		RateLimitWindow: time.Minute,
		RateLimitMax:    2,
	}, logger)

	for i := 0; i < 2; i++ {
		if rec := doRequest(t, router, http.MethodGet, "/health", "", false); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}

	rec := doRequest(t, router, http.MethodGet, "/health", "", false)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}
