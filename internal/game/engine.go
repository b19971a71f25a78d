package game

import (
	"time"

	"go.uber.org/zap"

	"revreb/internal/catalog"
)

// Engine binds the card catalog and ambient services into the rules
// machinery. It holds no per-match state; every method takes the
// MatchState it operates on.
type Engine struct {
	Catalog *catalog.Catalog
	Logger  *zap.Logger

	// Now is swappable for tests.
	Now func() time.Time

	// ForceFirstPlayer pins the first-player choice to a player index
	// when >= 0. Used by scripted tests and the state injection endpoint.
	ForceFirstPlayer int
}

// NewEngine wires an engine with real time and random first player.
func NewEngine(cat *catalog.Catalog, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Catalog:          cat,
		Logger:           logger,
		Now:              func() time.Time { return time.Now().UTC() },
		ForceFirstPlayer: -1,
	}
}
