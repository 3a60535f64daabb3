package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /health/db", handler.HealthDB)
	mux.HandleFunc("GET /health/matches", handler.HealthMatches)
	mux.HandleFunc("/", handler.NotFound)
}

func registerGameRoutes(mux *http.ServeMux, handler *Handler, apiKey string) {
	mux.Handle("GET /api/games", RequireAPIKey(apiKey, http.HandlerFunc(handler.ListGames)))
	mux.Handle("POST /api/games", RequireAPIKey(apiKey, http.HandlerFunc(handler.CreateGame)))
	mux.Handle("DELETE /api/games", RequireAPIKey(apiKey, http.HandlerFunc(handler.DeleteAllGames)))
	mux.Handle("GET /api/games/stats", RequireAPIKey(apiKey, http.HandlerFunc(handler.GameStats)))
	mux.Handle("GET /api/games/{gameID}", RequireAPIKey(apiKey, http.HandlerFunc(handler.GetGame)))
	mux.Handle("PUT /api/games/{gameID}", RequireAPIKey(apiKey, http.HandlerFunc(handler.UpdateGame)))
	mux.Handle("DELETE /api/games/{gameID}", RequireAPIKey(apiKey, http.HandlerFunc(handler.DeleteGame)))
}

func registerMatchRoutes(mux *http.ServeMux, handler *Handler, apiKey string) {
	mux.Handle("GET /api/matches", RequireAPIKey(apiKey, http.HandlerFunc(handler.ListMatches)))
	mux.Handle("POST /api/matches", RequireAPIKey(apiKey, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("GET /api/matches/{matchID}", RequireAPIKey(apiKey, http.HandlerFunc(handler.GetMatch)))
	mux.Handle("PUT /api/matches/{matchID}", RequireAPIKey(apiKey, http.HandlerFunc(handler.UpdateMatch)))
	mux.Handle("DELETE /api/matches/{matchID}", RequireAPIKey(apiKey, http.HandlerFunc(handler.DeleteMatch)))
}
