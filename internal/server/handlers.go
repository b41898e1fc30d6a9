package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/docsearch/internal/dom"
	"github.com/hyperjump/docsearch/internal/models"
	"github.com/hyperjump/docsearch/internal/render"
	"github.com/hyperjump/docsearch/internal/session"
	"go.uber.org/zap"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	s.logger.Debug("search request", zap.String("query", q))
	start := time.Now()
	results, err := s.index.Query(q)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, &models.SearchResponse{
		Query:     q,
		Results:   results,
		Total:     len(results),
		QueryTime: time.Since(start).Milliseconds(),
	})
}

func (s *Server) handleDropdown(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results, err := s.index.Query(q)
	if err != nil {
		s.logger.Error("dropdown search failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := dom.Render(w, render.Fragment(results)); err != nil {
		s.logger.Warn("render dropdown failed", zap.Error(err))
	}
}

type documentEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.store.Documents()
	out := make([]documentEntry, len(docs))
	for i, doc := range docs {
		out[i] = documentEntry{Title: doc.Title, URL: doc.URL}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"documents": out})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	indexed, err := s.index.DocCount()
	if err != nil {
		s.logger.Error("status: doc count failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents":   s.store.Len(),
		"index_built": s.index.Built(),
		"indexed":     indexed,
		"sessions":    s.sessions.Len(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		if errors.Is(err, session.ErrLimitReached) {
			s.respondError(w, http.StatusTooManyRequests, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleSessionAction(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var action session.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := action.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("session action", zap.String("session", sess.ID), zap.Stringer("action", action))
	if err := sess.Apply(action); err != nil {
		if errors.Is(err, session.ErrTargetNotFound) {
			s.respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Delete(id); err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
