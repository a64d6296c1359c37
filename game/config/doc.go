// Package config provides setup preset management for Warboard.
//
// The config package handles:
//   - Loading setup presets from JSON files
//   - Preset validation against the starting piece counts
//   - Default preset selection
//   - Preset discovery and listing
//
// Preset Format:
//
// Presets are stored as JSON files in the presets directory. Each preset
// holds a name, a description and a four-row layout, front row first, one
// character per piece:
//
//	{
//	  "name": "Classic",
//	  "description": "Balanced opening",
//	  "layout": ["SSBSNSSBSS", "...", "...", "..."]
//	}
//
// Layout characters: F Flag, Y Spy, S Scout, N Miner, T Sergeant,
// L Lieutenant, K Captain, J Major, C Colonel, G General, M Marshal, B Bomb.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadPreset("defensive")
//	roster, err := preset.Roster()
//
// A preset file is the identifier without the .json suffix. Invalid files
// are skipped when listing and rejected when loaded by name.
package config
