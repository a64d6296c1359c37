// Package engine provides the core game logic for Warboard, a two-player
// Stratego-style war game played on a 10x10 grid.
//
// The engine package implements the game mechanics including:
//   - Board storage, piece lookup by identity and coordinate
//   - Move legality, including the sliding Scout
//   - Combat resolution between ranks
//   - Setup roster validation and home-row placement
//   - Turn alternation once both sides are ready
//
// Core Types:
//
// Board holds the 100 cells of the grid. EvaluateMove and ApplyMove are pure
// functions over a Board with no I/O. Game wraps a Board together with the
// turn and readiness state of a single match.
//
// Usage:
//
//	game := engine.NewGame(engine.Red)
//	if err := game.Setup(engine.Red, engine.DefaultRoster()); err != nil {
//		log.Fatal(err)
//	}
//	if err := game.Setup(engine.Blue, engine.DefaultRoster()); err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := game.Move(engine.Red, pieceID, 3, 5)
//
// Game Rules:
//
// Each side places 40 pieces in its four home rows. Pieces move one cell
// orthogonally, except Scouts which slide any distance along a row or column
// without jumping. Bombs and Flags never move. Eight water tiles in the middle
// of the board can never be entered. Attacking resolves by rank with two
// inversions: a Miner defuses a Bomb and a Spy defeats the Marshal.
package engine
