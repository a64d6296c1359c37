package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/wricardo/warboard/game/engine"
	"github.com/wricardo/warboard/game/service"
	"github.com/wricardo/warboard/transport/websocket"
	"go.uber.org/zap"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	logger  *zap.Logger
}

// NewServer creates a new API server. hub may be nil, which disables /ws.
func NewServer(gameService service.GameService, hub *websocket.Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  logger.Named("api"),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	// Session lifecycle
	api.HandleFunc("/create_game", s.handleCreateGame).Methods("POST")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/join_random/{side}", s.handleJoinRandom).Methods("GET")

	// Presets (before the {id} patterns)
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/presets/{name}", s.handleGetPreset).Methods("GET")

	// Per-game operations
	api.HandleFunc("/{id}/game_exists", s.handleGameExists).Methods("GET")
	api.HandleFunc("/{id}/join", s.handleJoin).Methods("GET")
	api.HandleFunc("/{id}/game_state", s.handleGameState).Methods("GET")
	api.HandleFunc("/{id}/game_state_changed", s.handleGameStateChanged).Methods("GET")
	api.HandleFunc("/{id}/move_piece", s.handleMovePiece).Methods("PUT")
	api.HandleFunc("/{id}/init_setup", s.handleInitSetup).Methods("POST")
	api.HandleFunc("/{id}/valid_moves", s.handleValidMoves).Methods("GET")
	api.HandleFunc("/{id}", s.handleGetGame).Methods("GET")
	api.HandleFunc("/{id}", s.handleDeleteGame).Methods("DELETE")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Error codes for rejections that are not move or setup errors
const (
	codeGameDoesNotExist = "GameDoesNotExist"
	codeInvalidAccess    = "InvalidAccess"
	codeNotYourTurn      = "NotYourTurn"
	codeNotReady         = "NotReady"
)

// respondServiceError maps service errors onto status codes and error tags
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	var moveErr *engine.MoveError
	var setupErr *service.SetupError

	switch {
	case errors.As(err, &setupErr):
		respondError(w, setupStatus(setupErr.Code), string(setupErr.Code))
	case errors.As(err, &moveErr):
		respondJSON(w, http.StatusBadRequest, moveErr)
	case errors.Is(err, service.ErrGameDoesNotExist):
		respondError(w, http.StatusNotFound, codeGameDoesNotExist)
	case errors.Is(err, service.ErrInvalidAccess):
		respondError(w, http.StatusForbidden, codeInvalidAccess)
	case errors.Is(err, engine.ErrNotYourTurn):
		respondError(w, http.StatusConflict, codeNotYourTurn)
	case errors.Is(err, engine.ErrNotReady):
		respondError(w, http.StatusConflict, codeNotReady)
	case errors.Is(err, service.ErrPresetNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("unhandled error", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func setupStatus(code service.SetupErrorCode) int {
	switch code {
	case service.SetupInvalidAccess:
		return http.StatusForbidden
	case service.SetupIncorrectPieceCount:
		return http.StatusBadRequest
	case service.SetupGameDoesNotExist:
		return http.StatusNotFound
	}
	return http.StatusConflict
}

// tokenParam reads the access token from the query string
func tokenParam(r *http.Request) (uuid.UUID, bool) {
	token, err := uuid.Parse(r.URL.Query().Get("token"))
	return token, err == nil
}

// Session Handlers

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PrimarySide engine.Side `json:"primary_side"`
		VsBot       bool        `json:"vs_bot"`
	}

	// An empty body creates a game with Red as primary
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.CreateSession(r.Context(), req.PrimarySide, req.VsBot)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	// Optional filter for lobbies
	if r.URL.Query().Get("open") == "true" {
		open := sessions[:0]
		for _, info := range sessions {
			if len(info.OpenSeats) > 0 {
				open = append(open, info)
			}
		}
		sessions = open
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count": len(sessions),
		"games": sessions,
	})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Game %s deleted", sessionID),
	})
}

func (s *Server) handleGameExists(w http.ResponseWriter, r *http.Request) {
	exists, err := s.service.SessionExists(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, exists)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	token, err := s.service.Join(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, token)
}

func (s *Server) handleJoinRandom(w http.ResponseWriter, r *http.Request) {
	side, err := engine.ParseSide(mux.Vars(r)["side"])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.JoinRandom(r.Context(), side)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Game Operation Handlers

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenParam(r)
	if !ok {
		respondError(w, http.StatusForbidden, codeInvalidAccess)
		return
	}

	state, err := s.service.GetState(r.Context(), mux.Vars(r)["id"], token)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGameStateChanged(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenParam(r)
	if !ok {
		respondError(w, http.StatusForbidden, codeInvalidAccess)
		return
	}

	changed, err := s.service.WaitForChange(r.Context(), mux.Vars(r)["id"], token)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, changed)
}

func (s *Server) handleMovePiece(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken uuid.UUID `json:"access_token"`
		PieceID     uuid.UUID `json:"piece_id"`
		X           int       `json:"x"`
		Y           int       `json:"y"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, err := s.service.Move(r.Context(), mux.Vars(r)["id"], req.AccessToken, req.PieceID, req.X, req.Y)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleInitSetup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken uuid.UUID     `json:"access_token"`
		Pieces      []engine.Rank `json:"pieces,omitempty"`
		Preset      string        `json:"preset,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	roster := req.Pieces
	if roster == nil && req.Preset != "" {
		preset, err := s.service.LoadPreset(r.Context(), req.Preset)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		if roster, err = preset.Roster(); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := s.service.SubmitSetup(r.Context(), mux.Vars(r)["id"], req.AccessToken, roster); err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Setup accepted"})
}

func (s *Server) handleValidMoves(w http.ResponseWriter, r *http.Request) {
	token, ok := tokenParam(r)
	if !ok {
		respondError(w, http.StatusForbidden, codeInvalidAccess)
		return
	}
	pieceID, err := uuid.Parse(r.URL.Query().Get("piece"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "piece parameter must be a piece id")
		return
	}

	moves, err := s.service.ValidMoves(r.Context(), mux.Vars(r)["id"], token, pieceID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if moves == nil {
		moves = []engine.Position{}
	}

	respondJSON(w, http.StatusOK, moves)
}

// Preset Handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.service.ListPresets(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, presets)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	preset, err := s.service.LoadPreset(r.Context(), name)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	roster, err := preset.Roster()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"preset": preset,
		"pieces": roster,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "push notifications disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := strings.ToLower(r.URL.Query().Get("session"))
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	// Verify session exists
	exists, err := s.service.SessionExists(r.Context(), sessionID)
	if err != nil || !exists {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
