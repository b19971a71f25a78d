package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"revreb/internal/game"
)

// wsPushInterval is how often a connected client gets a fresh projection.
const wsPushInterval = 500 * time.Millisecond

// handleWS streams a player's match projection over a websocket. The
// client connects with ?gameId=&playerId= and receives the scrubbed view
// whenever it changes, until the match ends or the client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	playerID := r.URL.Query().Get("playerId")
	sess, ok := s.sessions.Get(gameID)
	if !ok {
		http.Error(w, "unknown game id", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	ticker := time.NewTicker(wsPushInterval)
	defer ticker.Stop()

	var last []byte
	for {
		var (
			payload []byte
			done    bool
		)
		err := sess.Do(func(m *game.MatchState) error {
			view, err := s.engine.Project(m, playerID)
			if err != nil {
				return err
			}
			done = m.Phase == game.PhaseGameEnd
			payload, err = json.Marshal(view)
			return err
		})
		if err != nil {
			conn.Close(websocket.StatusPolicyViolation, err.Error())
			return
		}
		if string(payload) != string(last) {
			if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
				return
			}
			last = payload
		}
		if done {
			conn.Close(websocket.StatusNormalClosure, "game over")
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
