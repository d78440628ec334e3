// Package web exposes the scheduler over a small JSON API. Routing,
// validation and encoding live here; all scheduling behavior is in the
// review service.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/prepdeck/prepdeck/internal/domain"
	"github.com/prepdeck/prepdeck/internal/review"
	"github.com/prepdeck/prepdeck/internal/storage"
	"github.com/prepdeck/prepdeck/internal/sync"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	db         *storage.DB
	reviews    *review.Service
	router     *http.ServeMux
	validate   *validator.Validate
	reposDir   string
	queueLimit int
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, reviews *review.Service, reposDir string, queueLimit int) *Server {
	s := &Server{
		db:         db,
		reviews:    reviews,
		router:     http.NewServeMux(),
		validate:   validator.New(),
		reposDir:   reposDir,
		queueLimit: queueLimit,
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.HandleFunc("/api/answers", s.handlePostAnswer())
	s.router.HandleFunc("/api/queue", s.handleGetQueue())
	s.router.HandleFunc("/api/sessions", s.handlePostSession())

	// Source management routes
	s.router.HandleFunc("/api/sources", s.handleSources())
	s.router.HandleFunc("/api/sources/", s.handleDeleteSource())
	s.router.HandleFunc("/api/sync", s.handlePostSync())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// handlePostAnswer records one answer event and returns the updated
// review item.
func (s *Server) handlePostAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var event domain.AnswerEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			http.Error(w, "Invalid answer payload", http.StatusBadRequest)
			return
		}
		if err := s.validate.Struct(&event); err != nil {
			http.Error(w, "Invalid answer payload: "+err.Error(), http.StatusBadRequest)
			return
		}

		item, err := s.reviews.RecordAnswer(event)
		if err != nil {
			slog.Error("Failed to record answer", "question", event.QuestionID, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// handleGetQueue returns the ordered due queue. An optional limit query
// parameter bounds the page; it defaults to the configured queue limit.
func (s *Server) handleGetQueue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		limit := s.queueLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		queue, err := s.reviews.SelectQueue(time.Now().UTC(), limit)
		if err != nil {
			slog.Error("Failed to select review queue", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, queue)
	}
}

// handlePostSession records a write-once review session summary.
func (s *Server) handlePostSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var session domain.ReviewSession
		if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
			http.Error(w, "Invalid session payload", http.StatusBadRequest)
			return
		}

		stored, err := s.reviews.RecordSession(session)
		if err != nil {
			http.Error(w, "Invalid session summary", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusCreated, stored)
	}
}

// handleSources handles both GET and POST for source management.
func (s *Server) handleSources() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSources(w, r)
		case http.MethodPost:
			s.handlePostSource(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) handleGetSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.db.GetAllSources()
	if err != nil {
		slog.Error("Failed to get sources", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sources": sources})
}

func (s *Server) handlePostSource(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Path string `json:"path" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid source payload", http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(&payload); err != nil {
		http.Error(w, "Path cannot be empty", http.StatusBadRequest)
		return
	}

	id, err := s.db.InsertSource(payload.Path, sync.SourceType(payload.Path))
	if err != nil {
		slog.Error("Failed to insert source", "path", payload.Path, "error", err)
		http.Error(w, "Failed to add source", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id})
}

// handleDeleteSource removes a source registration.
func (s *Server) handleDeleteSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		idStr := strings.TrimPrefix(r.URL.Path, "/api/sources/")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid source ID", http.StatusBadRequest)
			return
		}

		if err := s.db.DeleteSource(id); err != nil {
			slog.Error("Failed to delete source", "id", id, "error", err)
			http.Error(w, "Failed to delete source", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handlePostSync triggers a question-bank sync in the foreground.
func (s *Server) handlePostSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := sync.RunSync(s.db, s.reposDir); err != nil {
			slog.Error("Sync failed", "error", err)
			http.Error(w, "Sync failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
