package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/wricardo/warboard/game/engine"
	"go.uber.org/zap"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	presets  PresetManager
	logger   *zap.Logger
}

// NewGameService creates a new game service instance. A nil logger disables
// logging.
func NewGameService(sessions SessionManager, presets PresetManager, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		presets:  presets,
		logger:   logger.Named("service"),
	}
}

// CreateSession creates a new game session with an empty board
func (s *gameServiceImpl) CreateSession(ctx context.Context, primary engine.Side, vsBot bool) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := s.sessions.Create(primary, vsBot)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("create",
		zap.String("session", info.ID),
		zap.Stringer("primary", primary),
		zap.Bool("vs_bot", vsBot))
	return info, nil
}

func (s *gameServiceImpl) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.sessions.Exists(sessionID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.sessions.Info(sessionID)
}

// ListSessions returns all active sessions, oldest first
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sessions := s.sessions.List()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// DeleteSession removes a session and detaches its clients
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}

	s.logger.Info("delete", zap.String("session", sessionID))
	return nil
}

// Join issues a new access token for the session
func (s *gameServiceImpl) Join(ctx context.Context, sessionID string) (*ClientToken, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, err := s.sessions.Join(sessionID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("join",
		zap.String("session", sessionID),
		zap.String("seat", seatName(token.Side)))
	return token, nil
}

// JoinRandom places the caller on side in any open game, creating one if needed
func (s *gameServiceImpl) JoinRandom(ctx context.Context, side engine.Side) (*JoinResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.sessions.JoinRandom(side)
	if err != nil {
		return nil, fmt.Errorf("failed to join random game: %w", err)
	}

	s.logger.Info("join_random",
		zap.String("session", result.SessionID),
		zap.Stringer("side", side),
		zap.Bool("created", result.Created))
	return result, nil
}

// SubmitSetup places a side's roster. Every failure is returned as a
// *SetupError carrying its code.
func (s *gameServiceImpl) SubmitSetup(ctx context.Context, sessionID string, token uuid.UUID, roster []engine.Rank) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.sessions.SubmitSetup(sessionID, token, roster); err != nil {
		code := ClassifySetupError(err)
		s.logger.Debug("setup rejected",
			zap.String("session", sessionID),
			zap.String("code", string(code)),
			zap.Error(err))
		return &SetupError{Code: code, Err: err}
	}

	s.logger.Info("setup", zap.String("session", sessionID))
	return nil
}

// Move moves a piece on behalf of the token's side
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, token uuid.UUID, pieceID uuid.UUID, x, y int) (*engine.MoveOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome, err := s.sessions.ApplyMove(sessionID, token, pieceID, x, y)
	if err != nil {
		var moveErr *engine.MoveError
		if errors.As(err, &moveErr) {
			s.logger.Debug("move rejected",
				zap.String("session", sessionID),
				zap.String("kind", string(moveErr.Kind)))
		}
		return nil, err
	}

	s.logger.Info("move",
		zap.String("session", sessionID),
		zap.Stringer("piece", pieceID),
		zap.Stringer("to", outcome.To),
		zap.String("result", string(outcome.Kind)))
	return &outcome, nil
}

// ValidMoves lists the destinations a piece may move to
func (s *gameServiceImpl) ValidMoves(ctx context.Context, sessionID string, token uuid.UUID, pieceID uuid.UUID) ([]engine.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.sessions.ValidMoves(sessionID, token, pieceID)
}

// GetState returns the board as the token holder may see it
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string, token uuid.UUID) (*StateView, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state, viewer, err := s.sessions.Snapshot(sessionID, token)
	if err != nil {
		return nil, err
	}

	view := &StateView{
		Board:       state.Board.Masked(viewer),
		ActiveSide:  state.ActiveSide,
		PrimarySide: state.PrimarySide,
		Ready:       state.Ready,
		Viewer:      viewer,
		PiecesLeft: map[engine.Side]int{
			engine.Red:  engine.CountSide(state.Board, engine.Red),
			engine.Blue: engine.CountSide(state.Board, engine.Blue),
		},
	}
	if viewer != nil {
		view.Remaining = state.Board.Remaining(*viewer)
	}
	return view, nil
}

func (s *gameServiceImpl) WaitForChange(ctx context.Context, sessionID string, token uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return s.sessions.WaitForChange(sessionID, token)
}

// ListPresets returns the available setup presets
func (s *gameServiceImpl) ListPresets(ctx context.Context) ([]*PresetInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.presets == nil {
		return []*PresetInfo{}, nil
	}
	return s.presets.ListPresets()
}

// LoadPreset loads a preset by id; an empty name yields the default
func (s *gameServiceImpl) LoadPreset(ctx context.Context, name string) (*engine.SetupPreset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.presets == nil {
		return nil, ErrPresetNotFound
	}
	if name == "" {
		return s.presets.GetDefault(), nil
	}

	preset, err := s.presets.LoadPreset(name)
	if err != nil {
		if errors.Is(err, ErrPresetNotFound) {
			return nil, fmt.Errorf("preset '%s' not found: %w", name, err)
		}
		return nil, fmt.Errorf("failed to load preset %s: %w", name, err)
	}
	return preset, nil
}

func seatName(side *engine.Side) string {
	if side == nil {
		return "spectator"
	}
	return side.String()
}
