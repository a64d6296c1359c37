package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/warboard/game/engine"
	"github.com/wricardo/warboard/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Warboard",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Warboard - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Capture the enemy flag, or leave the enemy with no piece that can move.
Two sides, Red and Blue, each place 40 pieces on their four home rows and
then alternate moves. Enemy ranks are hidden until combat reveals them.

TYPICAL FLOW:
1. create_game or join_random to get a game id
2. join_game to get an access token (keep it, it is your identity)
3. submit_setup with 40 pieces or a preset name
4. game_state to read the board, valid_moves to plan, move_piece to act
5. game_state_changed to check whether the opponent has moved

AVAILABLE TOOLS:
- create_game, list_games, get_game, delete_game, game_exists
- join_game, join_random
- submit_setup, list_presets, get_preset
- game_state, game_state_changed, valid_moves, move_piece

BOARD LEGEND:
Each cell is two characters: side initial then piece symbol.
F Flag, Y Spy, S Scout, N Miner, T Sergeant, L Lieutenant, K Captain,
J Major, C Colonel, G General, M Marshal, B Bomb, ? hidden enemy.
"~~" is water and ".." is empty.`),
	)

	c.registerTools()
}

func stringProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func integerProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game. The primary side sets up on rows 6-9 and moves first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"primary_side": stringProp("Red or Blue (default Red)"),
				"vs_bot": map[string]interface{}{
					"type":        "boolean",
					"description": "Reserve the second seat for a bot",
				},
			},
		},
	}, c.handleCreateGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List games, optionally only those with a free seat",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"open": map[string]interface{}{
					"type":        "boolean",
					"description": "Only games with an open seat",
				},
			},
		},
	}, c.handleListGames)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_game",
		Description: "Get the summary of a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": stringProp("Game ID"),
			},
			Required: []string{"game_id"},
		},
	}, c.handleGetGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_game",
		Description: "Delete a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": stringProp("Game ID"),
			},
			Required: []string{"game_id"},
		},
	}, c.handleDeleteGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_exists",
		Description: "Check whether a game exists",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": stringProp("Game ID"),
			},
			Required: []string{"game_id"},
		},
	}, c.handleGameExists)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_game",
		Description: "Join a game and receive an access token. The primary seat is filled first, then the secondary, then spectators.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": stringProp("Game ID"),
			},
			Required: []string{"game_id"},
		},
	}, c.handleJoinGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_random",
		Description: "Join any open game on the given side, creating one when none is waiting",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"side": stringProp("Red or Blue"),
			},
			Required: []string{"side"},
		},
	}, c.handleJoinRandom)

	// Setup
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_setup",
		Description: "Place your 40 pieces. Pass either pieces (40 rank names, front row first) or a preset name.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": stringProp("Game ID"),
				"token":   stringProp("Access token from join_game"),
				"pieces": map[string]interface{}{
					"type":        "array",
					"description": "40 rank names such as Bomb, Scout, Marshal",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"preset": stringProp("Preset id from list_presets"),
			},
			Required: []string{"game_id", "token"},
		},
	}, c.handleSubmitSetup)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List available setup presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_preset",
		Description: "Show a setup preset layout",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": stringProp("Preset id"),
			},
			Required: []string{"name"},
		},
	}, c.handleGetPreset)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board as seen by your token. Enemy ranks are hidden.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": stringProp("Game ID"),
				"token":   stringProp("Access token"),
			},
			Required: []string{"game_id", "token"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state_changed",
		Description: "Check whether the game changed since your last check",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": stringProp("Game ID"),
				"token":   stringProp("Access token"),
			},
			Required: []string{"game_id", "token"},
		},
	}, c.handleGameStateChanged)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "valid_moves",
		Description: "List the cells one of your pieces may move to",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id":  stringProp("Game ID"),
				"token":    stringProp("Access token"),
				"piece_id": stringProp("Piece ID from game_state"),
			},
			Required: []string{"game_id", "token", "piece_id"},
		},
	}, c.handleValidMoves)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_piece",
		Description: "Move one of your pieces to (x,y). Moving onto an enemy attacks it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id":  stringProp("Game ID"),
				"token":    stringProp("Access token"),
				"piece_id": stringProp("Piece ID from game_state"),
				"x":        integerProp("Destination column 0-9"),
				"y":        integerProp("Destination row 0-9"),
			},
			Required: []string{"game_id", "token", "piece_id", "x", "y"},
		},
	}, c.handleMovePiece)
}

// GetMCPServer returns the MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
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

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// decodeAPIError turns an error body into a message. Move rejections carry
// the offending coordinates or piece id next to the error code.
func decodeAPIError(resp *http.Response) error {
	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	code, ok := errResp["error"].(string)
	if !ok {
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	x, hasX := errResp["x"].(float64)
	y, hasY := errResp["y"].(float64)
	if hasX && hasY {
		return fmt.Errorf("%s at (%d,%d)", code, int(x), int(y))
	}
	if pieceID, ok := errResp["piece_id"].(string); ok {
		return fmt.Errorf("%s: %s", code, pieceID)
	}
	return fmt.Errorf("%s", code)
}

func gamePath(gameID, suffix string) string {
	return "/api/" + url.PathEscape(gameID) + suffix
}

func tokenQuery(token string, extra ...string) string {
	q := url.Values{}
	q.Set("token", token)
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	return "?" + q.Encode()
}

// Tool handlers

func (c *Client) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	primary, _ := args["primary_side"].(string)
	vsBot, _ := args["vs_bot"].(bool)

	body := map[string]interface{}{"vs_bot": vsBot}
	if primary != "" {
		side, err := engine.ParseSide(primary)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body["primary_side"] = side
	}

	var info service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/create_game", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %s\nPrimary side: %s\nNext: join_game with this id.\n", info.ID, info.PrimarySide)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	open, _ := args["open"].(bool)

	path := "/api/games"
	if open {
		path += "?open=true"
	}

	var response struct {
		Count int                   `json:"count"`
		Games []service.SessionInfo `json:"games"`
	}
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Games (%d):\n\n", response.Count)
	for _, g := range response.Games {
		fmt.Fprintf(&result, "- %s (Primary: %s, Players: %d, Open: %s, Created: %s)\n",
			g.ID, g.PrimarySide, g.Players, formatSides(g.OpenSeats), g.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var info service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, gamePath(gameID, ""), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleDeleteGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	if err := c.apiCall(ctx, http.MethodDelete, gamePath(gameID, ""), nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted game %s", gameID)), nil
}

func (c *Client) handleGameExists(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var exists bool
	if err := c.apiCall(ctx, http.MethodGet, gamePath(gameID, "/game_exists"), nil, &exists); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%t", exists)), nil
}

func (c *Client) handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var token service.ClientToken
	if err := c.apiCall(ctx, http.MethodGet, gamePath(gameID, "/join"), nil, &token); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatToken(gameID, &token)), nil
}

func (c *Client) handleJoinRandom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	sideName, _ := args["side"].(string)

	side, err := engine.ParseSide(sideName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var joined service.JoinResult
	if err := c.apiCall(ctx, http.MethodGet, "/api/join_random/"+side.String(), nil, &joined); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	if joined.Created {
		result.WriteString("No open game was waiting, created a new one.\n")
	}
	result.WriteString(formatToken(joined.SessionID, joined.Token))
	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleSubmitSetup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	token, _ := args["token"].(string)
	preset, _ := args["preset"].(string)
	piecesRaw, _ := args["pieces"].([]interface{})

	body := map[string]interface{}{"access_token": token}
	switch {
	case len(piecesRaw) > 0:
		pieces := make([]engine.Rank, 0, len(piecesRaw))
		for i, raw := range piecesRaw {
			name, _ := raw.(string)
			rank, err := engine.ParseRank(name)
			if err != nil || !rank.Valid() {
				return mcp.NewToolResultError(fmt.Sprintf("piece %d: invalid rank %q", i, name)), nil
			}
			pieces = append(pieces, rank)
		}
		body["pieces"] = pieces
	case preset != "":
		body["preset"] = preset
	default:
		return mcp.NewToolResultError("either pieces or preset is required"), nil
	}

	if err := c.apiCall(ctx, http.MethodPost, gamePath(gameID, "/init_setup"), body, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Setup accepted. Wait for the opponent, then read game_state."), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var presets []service.PresetInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/presets", nil, &presets); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available presets:\n\n")
	for _, p := range presets {
		fmt.Fprintf(&result, "- %s: %s\n", p.PresetID, p.Name)
		if p.Description != "" {
			fmt.Fprintf(&result, "  %s\n", p.Description)
		}
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetPreset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	name, _ := args["name"].(string)

	var response struct {
		Preset engine.SetupPreset `json:"preset"`
		Pieces []engine.Rank      `json:"pieces"`
	}
	if err := c.apiCall(ctx, http.MethodGet, "/api/presets/"+url.PathEscape(name), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPreset(&response.Preset)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	token, _ := args["token"].(string)

	var state service.StateView
	if err := c.apiCall(ctx, http.MethodGet, gamePath(gameID, "/game_state")+tokenQuery(token), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatStateView(&state)), nil
}

func (c *Client) handleGameStateChanged(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	token, _ := args["token"].(string)

	var changed bool
	if err := c.apiCall(ctx, http.MethodGet, gamePath(gameID, "/game_state_changed")+tokenQuery(token), nil, &changed); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if changed {
		return mcp.NewToolResultText("true: the game changed, read game_state"), nil
	}
	return mcp.NewToolResultText("false: nothing changed since your last check"), nil
}

func (c *Client) handleValidMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	token, _ := args["token"].(string)
	pieceID, _ := args["piece_id"].(string)

	var moves []engine.Position
	path := gamePath(gameID, "/valid_moves") + tokenQuery(token, "piece", pieceID)
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &moves); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(moves) == 0 {
		return mcp.NewToolResultText("No valid moves for this piece"), nil
	}

	cells := make([]string, len(moves))
	for i, m := range moves {
		cells[i] = m.String()
	}
	return mcp.NewToolResultText("Valid moves: " + strings.Join(cells, " ")), nil
}

func (c *Client) handleMovePiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	token, _ := args["token"].(string)
	pieceID, _ := args["piece_id"].(string)
	x, okX := args["x"].(float64)
	y, okY := args["y"].(float64)

	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required"), nil
	}

	body := map[string]interface{}{
		"access_token": token,
		"piece_id":     pieceID,
		"x":            int(x),
		"y":            int(y),
	}

	var outcome engine.MoveOutcome
	if err := c.apiCall(ctx, http.MethodPut, gamePath(gameID, "/move_piece"), body, &outcome); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveOutcome(&outcome)), nil
}

// Formatters

func formatSides(sides []engine.Side) string {
	if len(sides) == 0 {
		return "none"
	}
	names := make([]string, len(sides))
	for i, s := range sides {
		names[i] = s.String()
	}
	return strings.Join(names, ",")
}

func formatReady(ready map[engine.Side]bool) string {
	return fmt.Sprintf("Red %t, Blue %t", ready[engine.Red], ready[engine.Blue])
}

func formatSessionInfo(info *service.SessionInfo) string {
	return fmt.Sprintf("Game: %s\nPrimary side: %s\nActive side: %s\nReady: %s\nPlayers: %d, Spectators: %d\nOpen seats: %s\nCreated: %s\n",
		info.ID, info.PrimarySide, info.ActiveSide, formatReady(info.Ready),
		info.Players, info.Spectators, formatSides(info.OpenSeats),
		info.CreatedAt.Format("2006-01-02 15:04:05"))
}

func formatToken(gameID string, token *service.ClientToken) string {
	if token == nil {
		return fmt.Sprintf("Game: %s\nNo token issued\n", gameID)
	}
	seat := "spectator"
	if token.Side != nil {
		seat = token.Side.String()
	}
	return fmt.Sprintf("Game: %s\nToken: %s\nSeat: %s\n", gameID, token.AccessToken, seat)
}

var rankSymbols = func() map[engine.Rank]byte {
	symbols := make(map[engine.Rank]byte, len(engine.PresetLegend)+1)
	for c, r := range engine.PresetLegend {
		symbols[r] = c
	}
	symbols[engine.Unknown] = '?'
	return symbols
}()

func cellString(board *engine.Board, x, y int) string {
	if engine.IsWater(x, y) {
		return "~~"
	}
	p, _ := board.Get(x, y)
	if p == nil {
		return ".."
	}
	symbol, ok := rankSymbols[p.Rank]
	if !ok {
		symbol = '?'
	}
	return p.Owner.String()[:1] + string(symbol)
}

// formatBoard draws the grid with row 0 at the top
func formatBoard(board *engine.Board) string {
	var result strings.Builder

	result.WriteString("   ")
	for x := 0; x < engine.BoardWidth; x++ {
		fmt.Fprintf(&result, " %d ", x)
	}
	result.WriteString("\n")

	for y := 0; y < engine.BoardHeight; y++ {
		fmt.Fprintf(&result, "%d  ", y)
		for x := 0; x < engine.BoardWidth; x++ {
			result.WriteString(cellString(board, x, y))
			result.WriteString(" ")
		}
		result.WriteString("\n")
	}
	return result.String()
}

func formatStateView(state *service.StateView) string {
	if state == nil || state.Board == nil {
		return "No game state available"
	}

	var result strings.Builder

	viewer := "spectator"
	if state.Viewer != nil {
		viewer = state.Viewer.String()
	}
	fmt.Fprintf(&result, "You: %s | Active: %s | Primary: %s | Ready: %s\n",
		viewer, state.ActiveSide, state.PrimarySide, formatReady(state.Ready))
	fmt.Fprintf(&result, "Pieces left: Red %d, Blue %d\n\n",
		state.PiecesLeft[engine.Red], state.PiecesLeft[engine.Blue])

	result.WriteString(formatBoard(state.Board))

	if state.Viewer != nil {
		if state.Ready[*state.Viewer] && state.Ready[state.Viewer.Not()] {
			if state.ActiveSide == *state.Viewer {
				result.WriteString("\nYour turn.\n")
			} else {
				result.WriteString("\nWaiting for the opponent.\n")
			}
		} else if !state.Ready[*state.Viewer] {
			result.WriteString("\nSubmit your setup to start.\n")
		}

		result.WriteString("\nYour pieces:\n")
		for i, p := range state.Board {
			if p == nil || p.Owner != *state.Viewer {
				continue
			}
			fmt.Fprintf(&result, "- %s %s %s\n", engine.PositionOf(i), p.Rank, p.ID)
		}
	}

	if len(state.Remaining) > 0 {
		ranks := make([]engine.Rank, 0, len(state.Remaining))
		for r, n := range state.Remaining {
			if n > 0 {
				ranks = append(ranks, r)
			}
		}
		sort.Slice(ranks, func(i, j int) bool { return ranks[i] < ranks[j] })
		if len(ranks) > 0 {
			result.WriteString("\nStill to place:")
			for _, r := range ranks {
				fmt.Fprintf(&result, " %s x%d", r, state.Remaining[r])
			}
			result.WriteString("\n")
		}
	}

	return result.String()
}

func formatMoveOutcome(outcome *engine.MoveOutcome) string {
	var result strings.Builder

	fmt.Fprintf(&result, "✓ %s: %s -> %s\n", outcome.Kind, outcome.From, outcome.To)
	switch outcome.Kind {
	case engine.AttackSuccess:
		result.WriteString("Your piece won the attack.\n")
	case engine.AttackFailure:
		result.WriteString("Your piece lost the attack.\n")
	case engine.AttackFailureMutual:
		result.WriteString("Both pieces were removed.\n")
	}
	for _, p := range outcome.Pieces {
		fmt.Fprintf(&result, "Captured: %s %s\n", p.Owner, p.Rank)
	}

	return result.String()
}

func formatPreset(preset *engine.SetupPreset) string {
	var result strings.Builder

	fmt.Fprintf(&result, "Preset: %s\n", preset.Name)
	if preset.Description != "" {
		fmt.Fprintf(&result, "%s\n", preset.Description)
	}
	result.WriteString("\nFront row first:\n")
	for _, row := range preset.Layout {
		result.WriteString(row + "\n")
	}
	return result.String()
}
