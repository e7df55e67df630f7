package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/averko/chatgate/pkg/chatgate/catalog"
	"github.com/averko/chatgate/pkg/chatgate/history"
	"github.com/averko/chatgate/pkg/chatgate/router"
)

// maxBodyBytes caps chat request bodies to prevent OOM from oversized payloads.
const maxBodyBytes = 2 * 1024 * 1024

type chatRequest struct {
	Message   string `json:"message"`
	Model     string `json:"model"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	UserMessage string    `json:"user_message"`
	AIResponse  string    `json:"ai_response"`
	Timestamp   time.Time `json:"timestamp"`
	ModelUsed   string    `json:"model_used"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (g *Gateway) writeError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	var resp errorResponse
	resp.Error.Message = msg
	resp.Error.Code = code
	_ = json.NewEncoder(w).Encode(resp)
}

func (g *Gateway) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleRoot implements GET /
func (g *Gateway) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		g.writeError(w, "not found", 404)
		return
	}
	if r.Method != http.MethodGet {
		g.writeError(w, "method not allowed", 405)
		return
	}
	g.writeJSON(w, 200, map[string]string{
		"message": "chatgate - LLM chat API",
		"docs":    "https://github.com/averko/chatgate#api",
	})
}

// handleHealth implements GET /health
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.writeError(w, "method not allowed", 405)
		return
	}
	dbHealthy := true
	dbError := ""
	if err := g.store.Ping(r.Context()); err != nil {
		dbHealthy = false
		dbError = err.Error()
	}
	status := 200
	if !dbHealthy {
		status = 503
	}
	g.writeJSON(w, status, map[string]any{
		"status":      statusLabel(dbHealthy),
		"uptime":      time.Since(g.startedAt).Round(time.Second).String(),
		"db_healthy":  dbHealthy,
		"db_error":    dbError,
		"live_models": len(g.models.Available()),
	})
}

func statusLabel(healthy bool) string {
	if healthy {
		return "ok"
	}
	return "degraded"
}

// handleChat implements POST /chat
func (g *Gateway) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.writeError(w, "method not allowed", 405)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		g.writeError(w, "failed to read body", 400)
		return
	}
	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		g.writeError(w, "invalid request body", 400)
		return
	}
	if req.Model == "" {
		req.Model = router.ModelAuto
	}
	if req.SessionID == "" {
		req.SessionID = r.Header.Get("X-Session-ID")
	}

	// The message itself is not validated — empty strings and whatever else
	// the client sends are forwarded as-is; the provider's limits apply.
	ex, err := g.service.Handle(r.Context(), req.Message, req.Model, ClientKey(r), req.SessionID)
	if err != nil {
		g.logger.Error("chat failed", "error", err)
		g.writeError(w, "internal server error", 500)
		return
	}

	g.writeJSON(w, 200, chatResponse{
		UserMessage: ex.UserMessage,
		AIResponse:  ex.AIResponse,
		Timestamp:   ex.Timestamp,
		ModelUsed:   ex.ModelUsed,
	})
}

// handleHistory implements GET /history and DELETE /history, both scoped to
// the requesting client's key.
func (g *Gateway) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		g.handleListHistory(w, r)
	case http.MethodDelete:
		g.handlePurgeHistory(w, r)
	default:
		g.writeError(w, "method not allowed", 405)
	}
}

func (g *Gateway) handleListHistory(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			g.writeError(w, "invalid limit", 400)
			return
		}
		limit = n
	}

	exchanges, err := g.store.List(r.Context(), ClientKey(r), limit)
	if err != nil {
		g.logger.Error("history list failed", "error", err)
		g.writeError(w, "internal server error", 500)
		return
	}
	if exchanges == nil {
		exchanges = []history.Exchange{}
	}
	g.writeJSON(w, 200, exchanges)
}

func (g *Gateway) handlePurgeHistory(w http.ResponseWriter, r *http.Request) {
	deleted, err := g.store.Purge(r.Context(), ClientKey(r))
	if err != nil {
		g.logger.Error("history purge failed", "error", err)
		g.writeError(w, "internal server error", 500)
		return
	}
	g.writeJSON(w, 200, map[string]int64{"deleted": deleted})
}

// handleStats implements GET /stats
func (g *Gateway) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.writeError(w, "method not allowed", 405)
		return
	}
	total, err := g.store.CountAll(r.Context())
	if err != nil {
		g.logger.Error("stats failed", "error", err)
		g.writeError(w, "internal server error", 500)
		return
	}
	unique, err := g.store.CountDistinctClients(r.Context())
	if err != nil {
		g.logger.Error("stats failed", "error", err)
		g.writeError(w, "internal server error", 500)
		return
	}
	g.writeJSON(w, 200, map[string]any{
		"total_messages":   total,
		"unique_users":     unique,
		"provider":         g.provider,
		"available_models": g.models.Available(),
	})
}

type modelEntry struct {
	catalog.ModelConfig
	Available bool `json:"available"`
}

// handleModels implements GET /models: the catalog annotated with live
// availability, plus the synthetic "auto" entry.
func (g *Gateway) handleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.writeError(w, "method not allowed", 405)
		return
	}

	entries := make([]modelEntry, 0, len(catalog.IDs())+1)
	entries = append(entries, modelEntry{
		ModelConfig: catalog.ModelConfig{
			ID:          router.ModelAuto,
			Name:        "Auto",
			Description: "Pick a model automatically based on the query",
			BestFor:     "everything",
		},
		Available: len(g.models.Available()) > 0,
	})
	for _, m := range catalog.All() {
		entries = append(entries, modelEntry{
			ModelConfig: m,
			Available:   g.models.IsLive(m.ID),
		})
	}
	g.writeJSON(w, 200, map[string]any{
		"default": catalog.DefaultModel,
		"models":  entries,
	})
}
