package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/wricardo/warboard/game/engine"
	"github.com/wricardo/warboard/game/service"
)

// Client talks to the REST API
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is a non-2xx answer. Code is the "error" field of the body.
type APIError struct {
	Status int
	Code   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Code)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return &APIError{Status: resp.StatusCode, Code: errResp.Error}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("parse %s response: %w", path, err)
		}
	}
	return nil
}

// CreateGame creates a game with the given primary side
func (c *Client) CreateGame(ctx context.Context, primary engine.Side) (string, error) {
	var info service.SessionInfo
	body := map[string]any{"primary_side": primary}
	if err := c.do(ctx, http.MethodPost, "/api/create_game", body, &info); err != nil {
		return "", fmt.Errorf("create game: %w", err)
	}
	return info.ID, nil
}

// DeleteGame removes a finished game
func (c *Client) DeleteGame(ctx context.Context, gameID string) error {
	return c.do(ctx, http.MethodDelete, "/api/"+url.PathEscape(gameID), nil, nil)
}

// Join takes the next seat in a game
func (c *Client) Join(ctx context.Context, gameID string) (*Player, error) {
	var token service.ClientToken
	if err := c.do(ctx, http.MethodGet, "/api/"+url.PathEscape(gameID)+"/join", nil, &token); err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}
	if token.Side == nil {
		return nil, fmt.Errorf("join %s: no seat left", gameID)
	}
	return &Player{client: c, gameID: gameID, token: token.AccessToken, side: *token.Side}, nil
}

// Player acts for one seat
type Player struct {
	client *Client
	gameID string
	token  uuid.UUID
	side   engine.Side
}

func (p *Player) path(suffix string) string {
	return "/api/" + url.PathEscape(p.gameID) + suffix
}

func (p *Player) query(extra ...string) string {
	q := url.Values{}
	q.Set("token", p.token.String())
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	return "?" + q.Encode()
}

// Setup submits a named preset
func (p *Player) Setup(ctx context.Context, preset string) error {
	body := map[string]any{"access_token": p.token, "preset": preset}
	if err := p.client.do(ctx, http.MethodPost, p.path("/init_setup"), body, nil); err != nil {
		return fmt.Errorf("%s setup: %w", p.side, err)
	}
	return nil
}

// State reads the board as this seat sees it
func (p *Player) State(ctx context.Context) (*service.StateView, error) {
	var state service.StateView
	if err := p.client.do(ctx, http.MethodGet, p.path("/game_state")+p.query(), nil, &state); err != nil {
		return nil, fmt.Errorf("%s state: %w", p.side, err)
	}
	return &state, nil
}

// Changed polls the change flag
func (p *Player) Changed(ctx context.Context) (bool, error) {
	var changed bool
	err := p.client.do(ctx, http.MethodGet, p.path("/game_state_changed")+p.query(), nil, &changed)
	return changed, err
}

// ValidMoves lists the destinations of one piece
func (p *Player) ValidMoves(ctx context.Context, pieceID uuid.UUID) ([]engine.Position, error) {
	var moves []engine.Position
	err := p.client.do(ctx, http.MethodGet, p.path("/valid_moves")+p.query("piece", pieceID.String()), nil, &moves)
	return moves, err
}

// Move moves a piece
func (p *Player) Move(ctx context.Context, pieceID uuid.UUID, to engine.Position) (*engine.MoveOutcome, error) {
	body := map[string]any{
		"access_token": p.token,
		"piece_id":     pieceID,
		"x":            to.X,
		"y":            to.Y,
	}

	var outcome engine.MoveOutcome
	if err := p.client.do(ctx, http.MethodPut, p.path("/move_piece"), body, &outcome); err != nil {
		return nil, fmt.Errorf("%s move: %w", p.side, err)
	}
	return &outcome, nil
}
