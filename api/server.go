// Package api exposes the chatbot over HTTP: a chat endpoint the web
// frontend calls, an ingestion trigger and a health probe.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/majubom/majubom/chat"
)

// Answerer is the slice of the chat service the server needs.
type Answerer interface {
	Answer(ctx context.Context, query string, profile chat.UserProfile, history *chat.History) (string, error)
}

// Ingester runs a full directory ingestion and reports the chunk count.
type Ingester func(ctx context.Context, dir string) (int, error)

type Server struct {
	answerer Answerer
	ingester Ingester
	logger   *zap.Logger
	router   chi.Router

	mu        sync.Mutex
	histories map[string]*chat.History
}

func NewServer(answerer Answerer, ingester Ingester, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		answerer:  answerer,
		ingester:  ingester,
		logger:    logger,
		histories: make(map[string]*chat.History),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/chat", s.handleChat)
	r.Post("/api/ingest", s.handleIngest)

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type profilePayload struct {
	OriginCountry     string   `json:"originCountry"`
	ResidenceArea     string   `json:"residenceArea"`
	VisaStatus        string   `json:"visaStatus"`
	FamilyMembers     []string `json:"familyMembers"`
	Interests         []string `json:"interests"`
	PreferredLanguage string   `json:"preferredLanguage"`
}

type chatRequest struct {
	SessionID string         `json:"sessionId"`
	Question  string         `json:"question"`
	Profile   profilePayload `json:"profile"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

type ingestRequest struct {
	Dir string `json:"dir"`
}

type ingestResponse struct {
	Chunks int `json:"chunks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	profile := chat.UserProfile{
		OriginCountry:     req.Profile.OriginCountry,
		ResidenceArea:     req.Profile.ResidenceArea,
		VisaStatus:        req.Profile.VisaStatus,
		FamilyMembers:     req.Profile.FamilyMembers,
		Interests:         req.Profile.Interests,
		PreferredLanguage: req.Profile.PreferredLanguage,
	}

	answer, err := s.answerer.Answer(r.Context(), req.Question, profile, s.sessionHistory(req.SessionID))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.ingester == nil {
		s.writeError(w, http.StatusNotImplemented, fmt.Errorf("ingestion is not enabled on this server"))
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Dir == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("dir is required"))
		return
	}

	count, err := s.ingester(r.Context(), req.Dir)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, ingestResponse{Chunks: count})
}

// sessionHistory returns the bounded history owned by the session, or
// nil for anonymous one-shot requests.
func (s *Server) sessionHistory(sessionID string) *chat.History {
	if sessionID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	history, ok := s.histories[sessionID]
	if !ok {
		history = chat.NewHistory(chat.DefaultHistoryLimit)
		s.histories[sessionID] = history
	}
	return history
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}
