package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hibiken/asynq"

	"github.com/recipereel/colette/internal/cache"
	"github.com/recipereel/colette/internal/config"
	apperrors "github.com/recipereel/colette/internal/errors"
	"github.com/recipereel/colette/internal/lang"
	"github.com/recipereel/colette/internal/recipe"
	"github.com/recipereel/colette/internal/services/extractor"
	"github.com/recipereel/colette/internal/worker"
)

// Extractor is the pipeline surface the handlers need; satisfied by
// extractor.Orchestrator.
type Extractor interface {
	Extract(ctx context.Context, req extractor.Request) (*extractor.Result, error)
	CacheStats(ctx context.Context) (cache.Stats, error)
}

type Server struct {
	cfg         *config.Config
	extractor   Extractor
	asynqClient *asynq.Client
}

func NewServer(cfg *config.Config, ext Extractor, asynqClient *asynq.Client) *Server {
	return &Server{
		cfg:         cfg,
		extractor:   ext,
		asynqClient: asynqClient,
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		slog.Error("request failed", "code", appErr.ErrorCode, "error", appErr.Error())
	}
	writeJSON(w, appErr.StatusCode, errorResponse{
		Success: false,
		Error:   errorBody{Code: appErr.ErrorCode, Message: appErr.Message},
	})
}

type ParseRecipeRequest struct {
	URL      string `json:"url"`
	Language string `json:"language,omitempty"`
	Strategy string `json:"strategy,omitempty"`
}

type ParseRecipeResponse struct {
	Success   bool           `json:"success"`
	Recipe    *recipe.Recipe `json:"recipe"`
	Strategy  string         `json:"strategy"`
	FromCache bool           `json:"from_cache"`
}

func (s *Server) HandleParseRecipe(w http.ResponseWriter, r *http.Request) {
	var req ParseRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body", "INVALID_BODY"))
		return
	}

	if req.URL == "" {
		writeError(w, apperrors.NewValidationError("url is required", "INVALID_URL"))
		return
	}

	strategy, err := parseStrategy(req.Strategy)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.extractor.Extract(r.Context(), extractor.Request{
		URL:      req.URL,
		Language: req.Language,
		Strategy: strategy,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ParseRecipeResponse{
		Success:   true,
		Recipe:    result.Recipe,
		Strategy:  string(result.Strategy),
		FromCache: result.FromCache,
	})
}

func parseStrategy(s string) (recipe.Strategy, error) {
	switch s {
	case "":
		return "", nil
	case string(recipe.StrategyHeuristic):
		return recipe.StrategyHeuristic, nil
	case string(recipe.StrategyAIAssisted):
		return recipe.StrategyAIAssisted, nil
	default:
		return "", apperrors.NewValidationError("strategy must be 'heuristic' or 'ai-assisted'", "INVALID_STRATEGY")
	}
}

type CacheStatsResponse struct {
	Success       bool  `json:"success"`
	TotalRecipes  int64 `json:"total_recipes"`
	TotalAccesses int64 `json:"total_accesses"`
}

func (s *Server) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.extractor.CacheStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CacheStatsResponse{
		Success:       true,
		TotalRecipes:  stats.TotalRecipes,
		TotalAccesses: stats.TotalAccesses,
	})
}

type ReparseRequest struct {
	URL      string `json:"url"`
	Language string `json:"language,omitempty"`
	Strategy string `json:"strategy,omitempty"`
}

// HandleReparse queues a background re-extraction that overwrites the cached
// entry for the (url, language) key.
func (s *Server) HandleReparse(w http.ResponseWriter, r *http.Request) {
	var req ReparseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid request body", "INVALID_BODY"))
		return
	}

	if req.URL == "" {
		writeError(w, apperrors.NewValidationError("url is required", "INVALID_URL"))
		return
	}

	if _, err := parseStrategy(req.Strategy); err != nil {
		writeError(w, err)
		return
	}

	// An absent language re-parses every supported language.
	var languages []string
	if req.Language != "" {
		languages = []string{req.Language}
	}

	task, err := worker.NewReparseRecipeTask(worker.ReparseRecipePayload{
		URL:       req.URL,
		Languages: languages,
		Strategy:  req.Strategy,
	})
	if err != nil {
		writeError(w, apperrors.NewInternalError("failed to create task", err))
		return
	}

	if _, err := s.asynqClient.Enqueue(task); err != nil {
		writeError(w, apperrors.NewInternalError("failed to enqueue task", err))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"success": true,
		"status":  "queued",
		"url":     req.URL,
	})
}

type PlatformInfo struct {
	Name      string   `json:"name"`
	URLFormat string   `json:"url_format"`
	Features  []string `json:"features"`
}

type SupportedPlatformsResponse struct {
	Success   bool           `json:"success"`
	Platforms []PlatformInfo `json:"platforms"`
	Languages []string       `json:"languages"`
}

func (s *Server) HandleSupportedPlatforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SupportedPlatformsResponse{
		Success: true,
		Platforms: []PlatformInfo{
			{
				Name:      string(recipe.PlatformInstagram),
				URLFormat: "https://www.instagram.com/p/{shortcode}/ or /reel/{shortcode}/",
				Features:  []string{"caption", "engagement", "thumbnail", "video_duration"},
			},
			{
				Name:      string(recipe.PlatformTikTok),
				URLFormat: "https://www.tiktok.com/@{user}/video/{id}",
				Features:  []string{"caption", "engagement", "thumbnail", "video_duration"},
			},
			{
				Name:      string(recipe.PlatformYouTube),
				URLFormat: "https://www.youtube.com/watch?v={id} or youtu.be/{id}",
				Features:  []string{"description", "engagement", "thumbnail", "video_duration"},
			},
		},
		Languages: lang.Supported(),
	})
}

type HealthResponse struct {
	Status        string `json:"status"`
	Service       string `json:"service"`
	Version       string `json:"version"`
	CacheDegraded bool   `json:"cache_degraded"`
}

// Health reports liveness plus whether the cache is in pass-through mode.
func (s *Server) HandleHealth(degraded func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:        "healthy",
			Service:       s.cfg.ServiceName,
			Version:       s.cfg.ServiceVersion,
			CacheDegraded: degraded(),
		})
	}
}
