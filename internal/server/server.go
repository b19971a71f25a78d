// Package server exposes the duel engine over HTTP JSON. Every response
// uses the {success, gameEnv, error} envelope; validation failures keep
// a 200 status and report their error kind in the body.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"revreb/internal/catalog"
	"revreb/internal/game"
	"revreb/internal/store"
)

// Server wires the engine, live sessions, deck lists and the optional
// snapshot store behind an http.Handler.
type Server struct {
	engine   *game.Engine
	sessions *game.SessionStore
	decks    *catalog.DeckFile
	snap     *store.Store // nil disables persistence
	logger   *zap.Logger
	cfg      Config
	mux      *http.ServeMux
}

// New assembles the server. snap may be nil.
func New(cfg Config, engine *game.Engine, decks *catalog.DeckFile, snap *store.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:   engine,
		sessions: game.NewSessionStore(),
		decks:    decks,
		snap:     snap,
		logger:   logger,
		cfg:      cfg,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("POST /api/start", s.handleStart)
	s.mux.HandleFunc("POST /api/ready", s.handleReady)
	s.mux.HandleFunc("POST /api/action", s.handleAction)
	s.mux.HandleFunc("POST /api/select", s.handleSelect)
	s.mux.HandleFunc("POST /api/ack", s.handleAck)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("POST /api/next-round", s.handleNextRound)
	s.mux.HandleFunc("GET /ws", s.handleWS)
	if s.cfg.AllowInject {
		s.mux.HandleFunc("POST /api/inject", s.handleInject)
	}
}

// envelope is the uniform response body.
type envelope struct {
	Success bool            `json:"success"`
	GameEnv *game.MatchView `json:"gameEnv,omitempty"`
	MatchID string          `json:"matchId,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusOK, envelope{
		Success: false,
		Error:   string(game.KindOf(err)),
	})
}

func (s *Server) badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, envelope{Success: false, Error: msg})
}

func decode[T any](r *http.Request, into *T) error {
	return json.NewDecoder(r.Body).Decode(into)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"matches": s.sessions.Len(),
		"cards":   s.engine.Catalog.Len(),
	})
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	type deckInfo struct {
		Number  int    `json:"number"`
		Name    string `json:"name"`
		Leaders int    `json:"leaders"`
		Cards   int    `json:"cards"`
	}
	var out []deckInfo
	for i, d := range s.decks.Decks {
		out = append(out, deckInfo{
			Number:  i + 1,
			Name:    d.Name,
			Leaders: len(d.Leaders),
			Cards:   len(d.Cards),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type startRequest struct {
	Players [2]struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Deck int    `json:"deck"`
	} `json:"players"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decode(r, &req); err != nil {
		s.badRequest(w, "malformed request body")
		return
	}
	if req.Players[0].ID == "" || req.Players[1].ID == "" || req.Players[0].ID == req.Players[1].ID {
		s.badRequest(w, "two distinct player ids are required")
		return
	}

	var setups [2]game.PlayerSetup
	for i, p := range req.Players {
		deck, err := s.engine.Catalog.DeckByNumber(s.decks, p.Deck)
		if err != nil {
			s.badRequest(w, err.Error())
			return
		}
		setups[i] = game.PlayerSetup{ID: p.ID, Name: p.Name, Deck: deck}
	}

	m, err := s.engine.NewMatch(setups[0], setups[1])
	if err != nil {
		s.badRequest(w, err.Error())
		return
	}
	s.sessions.Put(m)
	s.persist(r.Context(), m)
	writeJSON(w, http.StatusOK, envelope{Success: true, MatchID: m.ID})
}

// actionRequest is the shared body of all per-match POST endpoints.
type actionRequest struct {
	GameID   string      `json:"gameId"`
	PlayerID string      `json:"playerId"`
	Action   game.Action `json:"action"`

	Redraw          bool     `json:"redraw"`
	SelectionID     string   `json:"selectionId"`
	SelectedCardIDs []string `json:"selectedCardIds"`
	EventIDs        []int    `json:"eventIds"`
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decode(r, &req); err != nil {
		s.badRequest(w, "malformed request body")
		return
	}
	s.runAction(w, r, req.GameID, req.PlayerID, game.Action{
		Type:   game.ActionStartReady,
		Redraw: req.Redraw,
	})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decode(r, &req); err != nil {
		s.badRequest(w, "malformed request body")
		return
	}
	switch req.Action.Type {
	case game.ActionPlayCard, game.ActionPlayCardBack, game.ActionStartReady:
	default:
		s.badRequest(w, "unsupported action type")
		return
	}
	s.runAction(w, r, req.GameID, req.PlayerID, req.Action)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decode(r, &req); err != nil {
		s.badRequest(w, "malformed request body")
		return
	}
	s.runAction(w, r, req.GameID, req.PlayerID, game.Action{
		Type:            game.ActionSelectCard,
		SelectionID:     req.SelectionID,
		SelectedCardIDs: req.SelectedCardIDs,
	})
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decode(r, &req); err != nil {
		s.badRequest(w, "malformed request body")
		return
	}
	s.runAction(w, r, req.GameID, req.PlayerID, game.Action{
		Type:     game.ActionAcknowledgeEvents,
		EventIDs: req.EventIDs,
	})
}

// runAction serializes the action through the match session, persists the
// result, and answers with the acting player's projection.
func (s *Server) runAction(w http.ResponseWriter, r *http.Request, gameID, playerID string, a game.Action) {
	sess, ok := s.sessions.Get(gameID)
	if !ok {
		s.badRequest(w, "unknown game id")
		return
	}
	var (
		view      *game.MatchView
		actionErr error
	)
	err := sess.Do(func(m *game.MatchState) error {
		actionErr = s.engine.ProcessAction(m, playerID, a)
		s.persist(r.Context(), m)
		v, perr := s.engine.Project(m, playerID)
		if perr != nil {
			return perr
		}
		view = v
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	if actionErr != nil {
		writeJSON(w, http.StatusOK, envelope{
			Success: false,
			GameEnv: view,
			Error:   string(game.KindOf(actionErr)),
		})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, GameEnv: view})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	playerID := r.URL.Query().Get("playerId")
	sess, ok := s.sessions.Get(gameID)
	if !ok {
		s.badRequest(w, "unknown game id")
		return
	}
	var view *game.MatchView
	err := sess.Do(func(m *game.MatchState) error {
		v, err := s.engine.Project(m, playerID)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, GameEnv: view})
}

func (s *Server) handleNextRound(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := decode(r, &req); err != nil {
		s.badRequest(w, "malformed request body")
		return
	}
	sess, ok := s.sessions.Get(req.GameID)
	if !ok {
		s.badRequest(w, "unknown game id")
		return
	}
	var (
		view     *game.MatchView
		roundErr error
	)
	err := sess.Do(func(m *game.MatchState) error {
		roundErr = s.engine.NextRound(m)
		s.persist(r.Context(), m)
		v, perr := s.engine.Project(m, req.PlayerID)
		if perr != nil {
			return perr
		}
		view = v
		return nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	if roundErr != nil {
		writeJSON(w, http.StatusOK, envelope{
			Success: false,
			GameEnv: view,
			Error:   string(game.KindOf(roundErr)),
		})
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, GameEnv: view})
}

// handleInject replaces a match state wholesale. Only mounted when the
// config enables it; meant for tests and scripted scenarios.
func (s *Server) handleInject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string          `json:"gameId"`
		State  json.RawMessage `json:"state"`
	}
	if err := decode(r, &req); err != nil {
		s.badRequest(w, "malformed request body")
		return
	}
	var m game.MatchState
	if err := json.Unmarshal(req.State, &m); err != nil {
		s.badRequest(w, "malformed match state")
		return
	}
	if req.GameID != "" && req.GameID != m.ID {
		s.badRequest(w, "gameId does not match state id")
		return
	}
	if err := s.engine.Simulate(&m); err != nil {
		s.fail(w, err)
		return
	}
	if sess, ok := s.sessions.Get(m.ID); ok {
		sess.Replace(&m)
	} else {
		s.sessions.Put(&m)
	}
	s.persist(r.Context(), &m)
	writeJSON(w, http.StatusOK, envelope{Success: true, MatchID: m.ID})
}

// persist saves a snapshot when the store is configured. Save failures
// are logged, not surfaced; the live match keeps going.
func (s *Server) persist(ctx context.Context, m *game.MatchState) {
	if s.snap == nil {
		return
	}
	if err := s.snap.Save(ctx, m); err != nil {
		s.logger.Warn("snapshot save failed",
			zap.String("match", m.ID),
			zap.Error(err))
	}
}

// Restore loads every stored match back into live sessions, rebuilding
// derived state with one simulation pass each.
func (s *Server) Restore(ctx context.Context) error {
	if s.snap == nil {
		return nil
	}
	ids, err := s.snap.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		m, err := s.snap.Load(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := s.engine.Simulate(m); err != nil {
			s.logger.Error("skipping corrupt snapshot",
				zap.String("match", id),
				zap.Error(err))
			continue
		}
		s.sessions.Put(m)
	}
	s.logger.Info("restored matches", zap.Int("count", s.sessions.Len()))
	return nil
}
