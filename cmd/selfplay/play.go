package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/wricardo/warboard/game/engine"
	"github.com/wricardo/warboard/game/service"
	"go.uber.org/zap"
)

// Outcome reasons
const (
	ReasonFlagCaptured = "flag captured"
	ReasonNoMoves      = "no movable pieces"
	ReasonMoveLimit    = "move limit"
)

// Config controls one self-played game
type Config struct {
	Primary    engine.Side
	Presets    [2]string // primary, secondary
	MaxMoves   int
	Aggression float64 // chance of preferring an attack when one is available
	Cleanup    bool
}

// Result summarizes a finished game. Winner is nil when the move limit hit.
type Result struct {
	GameID   string
	Moves    int
	Captures int
	Winner   *engine.Side
	Reason   string
	Missed   int // opponent polls that reported no change after a move
}

type candidate struct {
	pieceID uuid.UUID
	to      engine.Position
	attack  bool
}

// PlayGame creates a game, seats both sides and plays random legal moves
// until a flag falls, a side cannot move, or MaxMoves is reached.
func PlayGame(ctx context.Context, c *Client, cfg Config, rng *rand.Rand, logger *zap.Logger) (*Result, error) {
	gameID, err := c.CreateGame(ctx, cfg.Primary)
	if err != nil {
		return nil, err
	}
	if cfg.Cleanup {
		defer c.DeleteGame(context.WithoutCancel(ctx), gameID)
	}

	first, err := c.Join(ctx, gameID)
	if err != nil {
		return nil, err
	}
	second, err := c.Join(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if err := first.Setup(ctx, cfg.Presets[0]); err != nil {
		return nil, err
	}
	if err := second.Setup(ctx, cfg.Presets[1]); err != nil {
		return nil, err
	}

	// Drain the join and setup events so later polls only see moves
	first.Changed(ctx)
	second.Changed(ctx)

	logger = logger.With(zap.String("game", gameID))
	logger.Debug("game ready", zap.Stringer("primary", first.side))

	result := &Result{GameID: gameID}
	for result.Moves < cfg.MaxMoves {
		mover, waiting := first, second
		view, err := first.State(ctx)
		if err != nil {
			return nil, err
		}
		if view.ActiveSide != first.side {
			mover, waiting = second, first
			if view, err = second.State(ctx); err != nil {
				return nil, err
			}
		}

		candidates, err := legalMoves(ctx, mover, view)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			finish(result, mover.side.Not(), ReasonNoMoves)
			logger.Debug("game over", zap.String("reason", result.Reason))
			return result, nil
		}

		choice := pick(candidates, cfg.Aggression, rng)
		outcome, err := mover.Move(ctx, choice.pieceID, choice.to)
		if err != nil {
			return nil, err
		}
		result.Moves++
		result.Captures += len(outcome.Pieces)

		logger.Debug("move",
			zap.Stringer("side", mover.side),
			zap.Stringer("from", outcome.From),
			zap.Stringer("to", outcome.To),
			zap.String("result", string(outcome.Kind)))

		if changed, err := waiting.Changed(ctx); err == nil && !changed {
			result.Missed++
		}

		for _, p := range outcome.Pieces {
			if p.Rank == engine.Flag && p.Owner != mover.side {
				finish(result, mover.side, ReasonFlagCaptured)
				logger.Debug("game over", zap.String("reason", result.Reason))
				return result, nil
			}
		}
	}

	result.Reason = ReasonMoveLimit
	return result, nil
}

func finish(result *Result, winner engine.Side, reason string) {
	result.Winner = &winner
	result.Reason = reason
}

// legalMoves asks the server for the destinations of every movable piece
func legalMoves(ctx context.Context, p *Player, view *service.StateView) ([]candidate, error) {
	var candidates []candidate
	for _, piece := range view.Board {
		if piece == nil || piece.Owner != p.side || !piece.Rank.Movable() {
			continue
		}

		moves, err := p.ValidMoves(ctx, piece.ID)
		if err != nil {
			return nil, fmt.Errorf("valid moves for %s: %w", piece.ID, err)
		}
		for _, to := range moves {
			target, _ := view.Board.Get(to.X, to.Y)
			candidates = append(candidates, candidate{
				pieceID: piece.ID,
				to:      to,
				attack:  target != nil,
			})
		}
	}
	return candidates, nil
}

// pick prefers an attack with probability aggression, otherwise any move
func pick(candidates []candidate, aggression float64, rng *rand.Rand) candidate {
	if rng.Float64() < aggression {
		var attacks []candidate
		for _, c := range candidates {
			if c.attack {
				attacks = append(attacks, c)
			}
		}
		if len(attacks) > 0 {
			return attacks[rng.IntN(len(attacks))]
		}
	}
	return candidates[rng.IntN(len(candidates))]
}
