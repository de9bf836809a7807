package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/socialchef/creativechef/internal/errors"
	"github.com/socialchef/creativechef/internal/services/recipe"
)

const maxJSONBytes = 64 << 10

type GenerateRecipeResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	HTML      string    `json:"html"`
	Raw       string    `json:"raw"`
	Provider  string    `json:"provider"`
	Cached    bool      `json:"cached"`
	CreatedAt time.Time `json:"created_at"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewValidationError("invalid request body", "INVALID_BODY", "Send a JSON object.")
	}
	return nil
}

func (s *Server) HandleGenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipe.Request
	if err := decodeJSON(w, r, &req); err != nil {
		errors.WriteJSON(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		errors.WriteJSON(w, err)
		return
	}

	g, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		errors.WriteJSON(w, err)
		return
	}

	writeJSON(w, http.StatusOK, GenerateRecipeResponse{
		ID:        g.ID,
		Title:     g.Title,
		HTML:      g.HTML,
		Raw:       g.Raw,
		Provider:  g.Provider,
		Cached:    g.Cached,
		CreatedAt: g.CreatedAt,
	})
}

type ExportRecipeRequest struct {
	Recipe string `json:"recipe"`
}

func (s *Server) HandleExportRecipe(w http.ResponseWriter, r *http.Request) {
	var req ExportRecipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		errors.WriteJSON(w, err)
		return
	}
	writeSpreadsheet(w, r, req.Recipe)
}

type HistoryEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Ingredients string    `json:"ingredients"`
	DishType    string    `json:"dish_type"`
	Region      string    `json:"region"`
	Provider    string    `json:"provider"`
	Raw         string    `json:"raw"`
	CreatedAt   time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Recipes []HistoryEntry `json:"recipes"`
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (s *Server) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		errors.WriteJSON(w, errors.NewUnavailableError("recipe history is not enabled", "HISTORY_DISABLED"))
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			errors.WriteJSON(w, errors.NewValidationError("limit must be a positive integer", "INVALID_LIMIT", ""))
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	rows, err := s.history.ListRecentRecipeHistory(r.Context(), int32(limit))
	if err != nil {
		errors.WriteJSON(w, errors.NewInternalError("failed to fetch history", "HISTORY_QUERY_FAILED", err))
		return
	}

	resp := HistoryResponse{Recipes: make([]HistoryEntry, len(rows))}
	for i, row := range rows {
		resp.Recipes[i] = HistoryEntry{
			ID:          row.IDString(),
			Title:       row.Title,
			Ingredients: row.Ingredients,
			DishType:    row.DishType,
			Region:      row.Region,
			Provider:    row.Provider,
			Raw:         row.Raw,
			CreatedAt:   row.CreatedAt.Time,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
