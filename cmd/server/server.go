package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	es "github.com/genesisdb/eventsourcing-demo"
	"github.com/genesisdb/eventsourcing-demo/cart"
	"github.com/genesisdb/eventsourcing-demo/inventory"
	"github.com/genesisdb/eventsourcing-demo/library"
	"github.com/genesisdb/eventsourcing-demo/todo"
)

type server struct {
	log   logrus.FieldLogger
	reg   *es.Registry
	store es.Store
	mux   *http.ServeMux
}

func newServer(log logrus.FieldLogger, reg *es.Registry, store es.Store) *server {
	s := &server{
		log:   log,
		reg:   reg,
		store: store,
		mux:   http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /api/commands", s.handleCommand)
	registerProjection(s, "carts", cart.Projection)
	registerProjection(s, "warehouses", inventory.Projection)
	registerProjection(s, "libraries", library.Projection)
	registerProjection(s, "lists", todo.Projection)

	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type commandRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (s *server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" {
		writeError(w, http.StatusBadRequest, "missing command type")
		return
	}
	if len(req.Data) == 0 {
		writeError(w, http.StatusBadRequest, "missing command data")
		return
	}

	if err := s.reg.Dispatch(r.Context(), req.Type, req.Data); err != nil {
		s.writeCommandError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeCommandError translates the command pipeline's error taxonomy onto
// HTTP statuses. Only the message leaks to the client; detail stays in the
// server log.
func (s *server) writeCommandError(w http.ResponseWriter, err error) {
	var verr *es.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  verr.Error(),
			"fields": verr.Fields,
		})
		return
	}

	var uerr *es.UnknownCommandError
	if errors.As(err, &uerr) {
		writeError(w, http.StatusBadRequest, uerr.Error())
		return
	}

	switch {
	case errors.Is(err, es.ErrSubjectExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, es.ErrSubjectNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.WithError(err).Error("command handling failed")
		var serr *es.StoreError
		if errors.As(err, &serr) {
			writeError(w, http.StatusBadGateway, "event store unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *server) writeReadError(w http.ResponseWriter, err error) {
	s.log.WithError(err).Error("projection read failed")
	var serr *es.StoreError
	if errors.As(err, &serr) {
		writeError(w, http.StatusBadGateway, "event store unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}

// registerProjection mounts the three read endpoints every domain shares:
// list all, snapshot by id, and raw event history.
func registerProjection[S any](s *server, resource string, p *es.Projection[S]) {
	s.mux.HandleFunc("GET /api/"+resource, func(w http.ResponseWriter, r *http.Request) {
		states, err := p.All(r.Context(), s.store)
		if err != nil {
			s.writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, states)
	})

	s.mux.HandleFunc("GET /api/"+resource+"/{id}", func(w http.ResponseWriter, r *http.Request) {
		state, found, err := p.State(r.Context(), s.store, r.PathValue("id"))
		if err != nil {
			s.writeReadError(w, err)
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, state)
	})

	s.mux.HandleFunc("GET /api/"+resource+"/{id}/history", func(w http.ResponseWriter, r *http.Request) {
		history, err := p.History(r.Context(), s.store, r.PathValue("id"))
		if err != nil {
			s.writeReadError(w, err)
			return
		}
		if len(history) == 0 {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, history)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
