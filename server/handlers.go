package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kanekosora-114/Tune-into-English/core/lyrics"
	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/model"
	"github.com/kanekosora-114/Tune-into-English/repository"
)

// Translator translates a whole lyrics document.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage, modelName string) (string, error)
}

// LineTranslator translates caller-segmented lines.
type LineTranslator interface {
	TranslateLines(ctx context.Context, lines []string, targetLanguage, modelName string) ([]string, error)
}

// maxBodyBytes bounds translate request bodies.
const maxBodyBytes = 1 << 20

// APIHandler serves the lyrics and translation endpoints.
type APIHandler struct {
	lyrics          lyrics.Finder
	translator      Translator
	lineTranslator  LineTranslator
	lookups         repository.LookupRepository
	defaultLanguage string
}

// HandlerOption configures an APIHandler.
type HandlerOption func(*APIHandler)

// WithTranslator enables POST /api/translate.
func WithTranslator(t Translator) HandlerOption {
	return func(h *APIHandler) { h.translator = t }
}

// WithLineTranslator enables POST /api/translate_lines.
func WithLineTranslator(t LineTranslator) HandlerOption {
	return func(h *APIHandler) { h.lineTranslator = t }
}

// WithLookups enables the lookup log endpoints.
func WithLookups(repo repository.LookupRepository) HandlerOption {
	return func(h *APIHandler) { h.lookups = repo }
}

// WithDefaultLanguage sets the target language used when a request names none.
func WithDefaultLanguage(lang string) HandlerOption {
	return func(h *APIHandler) {
		if lang != "" {
			h.defaultLanguage = lang
		}
	}
}

// NewAPIHandler creates the handler set.
func NewAPIHandler(finder lyrics.Finder, opts ...HandlerOption) *APIHandler {
	h := &APIHandler{lyrics: finder, defaultLanguage: "Japanese"}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("[Server] failed to encode response", logger.ErrorField(err))
	}
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{OK: false, Error: msg})
}

// HealthHandler answers liveness probes.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type lyricsResponse struct {
	OK     bool   `json:"ok"`
	Note   string `json:"note,omitempty"`
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Lyrics string `json:"lyrics,omitempty"`
	Synced bool   `json:"synced,omitempty"`
	Source string `json:"source,omitempty"`
}

// LyricsHandler handles GET /api/lyrics.
func (h *APIHandler) LyricsHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q := model.TrackQuery{
		Title:  strings.TrimSpace(params.Get("title")),
		Artist: strings.TrimSpace(params.Get("artist")),
		Album:  strings.TrimSpace(params.Get("album")),
		ISRC:   strings.TrimSpace(params.Get("isrc")),
	}
	if raw := strings.TrimSpace(params.Get("duration_ms")); raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ms < 0 {
			writeError(w, http.StatusBadRequest, "invalid duration_ms")
			return
		}
		q.DurationMS = ms
	}

	if q.Title == "" {
		writeJSON(w, http.StatusOK, lyricsResponse{OK: false, Note: "no title"})
		return
	}

	res, ok := h.lyrics.Resolve(r.Context(), q)
	if !ok {
		writeJSON(w, http.StatusOK, lyricsResponse{OK: false, Note: "lyrics not found", Title: q.Title, Artist: q.Artist})
		return
	}
	writeJSON(w, http.StatusOK, lyricsResponse{
		OK:     true,
		Title:  q.Title,
		Artist: q.Artist,
		Lyrics: res.Text,
		Synced: res.Synced,
		Source: res.Source,
	})
}

type translateRequest struct {
	Lyrics         string `json:"lyrics"`
	TargetLanguage string `json:"target_language"`
	Model          string `json:"model"`
}

type translateResponse struct {
	OK          bool   `json:"ok"`
	Translation string `json:"translation"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (h *APIHandler) language(requested string) string {
	if lang := strings.TrimSpace(requested); lang != "" {
		return lang
	}
	return h.defaultLanguage
}

// TranslateHandler handles POST /api/translate.
func (h *APIHandler) TranslateHandler(w http.ResponseWriter, r *http.Request) {
	if h.translator == nil {
		writeError(w, http.StatusBadRequest, "OPENAI_API_KEY not set")
		return
	}
	var req translateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start := time.Now()
	out, err := h.translator.Translate(r.Context(), req.Lyrics, h.language(req.TargetLanguage), req.Model)
	if err != nil {
		logger.Error("[Server] /api/translate failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	logger.Info("[Server] /api/translate done", logger.Duration("elapsed", time.Since(start)))
	writeJSON(w, http.StatusOK, translateResponse{OK: true, Translation: out})
}

type translateLinesRequest struct {
	Lines          []string `json:"lines"`
	TargetLanguage string   `json:"target_language"`
	Model          string   `json:"model"`
}

type translateLinesResponse struct {
	OK    bool     `json:"ok"`
	Lines []string `json:"lines"`
}

// TranslateLinesHandler handles POST /api/translate_lines.
func (h *APIHandler) TranslateLinesHandler(w http.ResponseWriter, r *http.Request) {
	if h.lineTranslator == nil {
		writeError(w, http.StatusBadRequest, "OPENAI_API_KEY not set")
		return
	}
	var req translateLinesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "lines required")
		return
	}

	out, err := h.lineTranslator.TranslateLines(r.Context(), req.Lines, h.language(req.TargetLanguage), req.Model)
	if err != nil {
		logger.Error("[Server] /api/translate_lines failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, translateLinesResponse{OK: true, Lines: out})
}

type lookupsResponse struct {
	OK      bool                  `json:"ok"`
	Lookups []*model.LyricsLookup `json:"lookups"`
}

// LookupsHandler handles GET /api/lyrics/lookups. With misses=true only
// lookups that found nothing in the last hours (default 24) are listed.
func (h *APIHandler) LookupsHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	limit, _ := strconv.Atoi(params.Get("limit"))

	var (
		entries []*model.LyricsLookup
		err     error
	)
	if missesOnly, _ := strconv.ParseBool(params.Get("misses")); missesOnly {
		entries, err = h.lookups.Misses(r.Context(), sinceHours(params.Get("hours")), limit)
	} else {
		entries, err = h.lookups.Recent(r.Context(), limit)
	}
	if err != nil {
		logger.Error("[Server] failed to list lookups", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list lookups")
		return
	}
	if entries == nil {
		entries = []*model.LyricsLookup{}
	}
	writeJSON(w, http.StatusOK, lookupsResponse{OK: true, Lookups: entries})
}

type statsResponse struct {
	OK      bool    `json:"ok"`
	Hours   int     `json:"hours"`
	Total   int64   `json:"total"`
	HitRate float64 `json:"hitRate"`
}

// LookupStatsHandler handles GET /api/lyrics/stats.
func (h *APIHandler) LookupStatsHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("hours")
	rate, total, err := h.lookups.HitRate(r.Context(), sinceHours(raw))
	if err != nil {
		logger.Error("[Server] failed to compute hit rate", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to compute hit rate")
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{OK: true, Hours: hoursOrDefault(raw), Total: total, HitRate: rate})
}

func hoursOrDefault(raw string) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return 24
}

func sinceHours(raw string) time.Time {
	return time.Now().Add(-time.Duration(hoursOrDefault(raw)) * time.Hour)
}
