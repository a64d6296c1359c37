package service

import (
	"errors"

	"github.com/wricardo/warboard/game/engine"
)

var (
	ErrGameDoesNotExist = errors.New("game does not exist")
	ErrInvalidAccess    = errors.New("access token is not valid for this game")
	ErrPresetNotFound   = errors.New("preset not found")
)

// SetupErrorCode is the closed set of reasons a setup can be refused
type SetupErrorCode string

const (
	SetupInvalidAccess       SetupErrorCode = "InvalidAccess"
	SetupIncorrectPieceCount SetupErrorCode = "IncorrectPieceCount"
	SetupGameDoesNotExist    SetupErrorCode = "GameDoesNotExist"
	SetupUnknownFail         SetupErrorCode = "UnknownFail"
)

// SetupError wraps a refused setup with its code
type SetupError struct {
	Code SetupErrorCode
	Err  error
}

func (e *SetupError) Error() string {
	if e.Err == nil {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Err.Error()
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// ClassifySetupError maps an error from the store to its setup error code
func ClassifySetupError(err error) SetupErrorCode {
	switch {
	case errors.Is(err, ErrInvalidAccess):
		return SetupInvalidAccess
	case errors.Is(err, engine.ErrIncorrectPieceCount):
		return SetupIncorrectPieceCount
	case errors.Is(err, ErrGameDoesNotExist):
		return SetupGameDoesNotExist
	}
	return SetupUnknownFail
}
