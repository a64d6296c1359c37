// Command presets validates, inspects and creates setup preset files.
//
//	presets validate [FILE|DIR ...]   check layouts and piece counts
//	presets list --dir configs        list presets the server would offer
//	presets show NAME [--secondary]   draw a preset on the board
//	presets create NAME               write the built-in layout as a new preset
//
// validate exits non-zero when any file is invalid.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/warboard/game/config"
	"github.com/wricardo/warboard/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func dirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Value:   "configs",
		Usage:   "preset directory",
		Sources: cli.EnvVars("PRESET_DIR"),
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "manage Warboard setup presets",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "validate preset files",
				ArgsUsage: "[FILE|DIR ...]",
				Flags:     []cli.Flag{dirFlag()},
				Action:    runValidate,
			},
			{
				Name:   "list",
				Usage:  "list valid presets",
				Flags:  []cli.Flag{dirFlag()},
				Action: runList,
			},
			{
				Name:      "show",
				Usage:     "draw a preset on the board",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					dirFlag(),
					&cli.BoolFlag{
						Name:  "secondary",
						Usage: "place the preset for the side that moves second",
					},
				},
				Action: runShow,
			},
			{
				Name:      "create",
				Usage:     "write the built-in layout as a new preset",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					dirFlag(),
					&cli.StringFlag{
						Name:  "title",
						Usage: "display name (defaults to NAME)",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "preset description",
					},
				},
				Action: runCreate,
			},
		},
	}
}

// validateFile loads and validates a single preset JSON file
func validateFile(path string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var preset engine.SetupPreset
	if err := json.Unmarshal(data, &preset); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateSetupPreset(&preset); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	roster, _ := preset.Roster()
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", preset.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Pieces: %d", len(roster)))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Flag: %s", flagCell(roster)))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Front row bombs: %d", strings.Count(preset.Layout[0], "B")))

	return result
}

// flagCell reports where the flag lands for the primary side
func flagCell(roster []engine.Rank) string {
	for i, r := range roster {
		if r == engine.Flag {
			return engine.PositionOf(engine.SetupIndex(true, i)).String()
		}
	}
	return "missing"
}

// collectFiles expands directories into their *.json files
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.json"))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

func runValidate(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		paths = []string{cmd.String("dir")}
	}

	files, err := collectFiles(paths)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error finding preset files: %v", err), 1)
	}
	if len(files) == 0 {
		return cli.Exit("No preset files found", 1)
	}

	if !report(cmd.Root().Writer, files) {
		return cli.Exit("Some presets have errors", 1)
	}
	return nil
}

// report prints one block per file and returns whether all were valid
func report(w io.Writer, files []string) bool {
	allValid := true
	for _, file := range files {
		result := validateFile(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All presets are valid!")
	}
	return allValid
}

func runList(ctx context.Context, cmd *cli.Command) error {
	manager, err := config.NewManager(cmd.String("dir"))
	if err != nil {
		return err
	}

	presets, err := manager.ListPresets()
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	for _, p := range presets {
		fmt.Fprintf(w, "%-12s %s\n", p.PresetID, p.Name)
		if p.Description != "" {
			fmt.Fprintf(w, "%-12s %s\n", "", p.Description)
		}
	}
	return nil
}

func runShow(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("show takes exactly one preset name", 1)
	}

	manager, err := config.NewManager(cmd.String("dir"))
	if err != nil {
		return err
	}

	preset, err := manager.LoadPreset(cmd.Args().First())
	if err != nil {
		return err
	}

	roster, err := preset.Roster()
	if err != nil {
		return err
	}

	primary := !cmd.Bool("secondary")
	board := engine.NewBoard()
	if err := engine.PlaceRoster(board, engine.Red, primary, roster); err != nil {
		return err
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "%s\n", preset.Name)
	if preset.Description != "" {
		fmt.Fprintf(w, "%s\n", preset.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, renderBoard(board))
	return nil
}

// renderBoard draws one character per cell using the preset legend
func renderBoard(board *engine.Board) string {
	symbols := make(map[engine.Rank]byte, len(engine.PresetLegend))
	for c, r := range engine.PresetLegend {
		symbols[r] = c
	}

	var b strings.Builder
	for y := 0; y < engine.BoardHeight; y++ {
		fmt.Fprintf(&b, "%d ", y)
		for x := 0; x < engine.BoardWidth; x++ {
			p, _ := board.Get(x, y)
			switch {
			case p != nil:
				b.WriteByte(symbols[p.Rank])
			case engine.IsWater(x, y):
				b.WriteByte('~')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func runCreate(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("create takes exactly one preset name", 1)
	}
	name := cmd.Args().First()

	manager, err := config.NewManager(cmd.String("dir"))
	if err != nil {
		return err
	}

	if _, err := manager.LoadPreset(name); err == nil {
		return cli.Exit(fmt.Sprintf("preset %s already exists", name), 1)
	}

	title := cmd.String("title")
	if title == "" {
		title = name
	}

	preset := engine.DefaultPreset()
	preset.Name = title
	if d := cmd.String("description"); d != "" {
		preset.Description = d
	}

	if err := manager.SavePreset(name, preset); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Root().Writer, "Created %s\n", filepath.Join(cmd.String("dir"), name+".json"))
	return nil
}
