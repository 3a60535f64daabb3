package trackerapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/rucktrack/rucktrack/internal/domain/game"
	"github.com/rucktrack/rucktrack/internal/platform/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Logger:  logging.NewNop(),
	})
}

func TestClient_CreateGame_SendsKeyAndNormalizesID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Method != http.MethodPost || r.URL.Path != "/api/games" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var in game.Game
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}

		in.ServerID = "507f1f77bcf86cd799439011"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(in)
	})

	created, err := client.CreateGame(context.Background(), game.Game{
		ID:   "1757000000000-a1b2c3d4",
		Home: game.Side{Name: "Lions"},
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if created.ServerID != "507f1f77bcf86cd799439011" {
		t.Fatalf("expected server id, got %q", created.ServerID)
	}
	if created.ID != "1757000000000-a1b2c3d4" {
		t.Fatalf("local id must survive the round trip, got %q", created.ID)
	}
}

func TestClient_ListGames_NormalizesServerOnlyIDs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode([]game.Game{
			{ID: "507f1f77bcf86cd799439011", Home: game.Side{Name: "Lions"}},
		})
	})

	items, err := client.ListGames(context.Background())
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one game, got %d", len(items))
	}
	if items[0].ServerID != "507f1f77bcf86cd799439011" {
		t.Fatalf("expected server-shaped id to be normalized, got %q", items[0].ServerID)
	}
}

func TestClient_ErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"home team is required"}`))
	})

	_, err := client.CreateGame(context.Background(), game.Game{})
	if err == nil {
		t.Fatalf("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "home team is required" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if IsTransient(err) {
		t.Fatalf("validation failure must not be transient")
	}
}

func TestClient_TransientClassification(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ListGames(context.Background())
	if err == nil || !IsTransient(err) {
		t.Fatalf("expected transient error for 502, got %v", err)
	}

	// Unreachable server.
	dead := NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1", Logger: logging.NewNop()})
	_, err = dead.ListGames(context.Background())
	if err == nil || !IsTransient(err) {
		t.Fatalf("expected transient error for connection refused, got %v", err)
	}
}

func TestClient_DeleteAllGames(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/games" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"deleted 0 games","deleted":0}`))
	})

	deleted, err := client.DeleteAllGames(context.Background())
	if err != nil {
		t.Fatalf("delete all games: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected zero deleted, got %d", deleted)
	}
}
