// Command vtrenderdemo is a smoke-test CLI: it builds a small synthetic
// terminal grid, probes and constructs a renderer against the requested
// backend policy, applies a sample cells update, and prints the resulting
// diagnostics. It exists to exercise detectPreferredBackend and the
// renderer facade end to end from the command line; it is not part of
// the renderer's embeddable API.
package main

import (
	"flag"
	"log"

	"github.com/gogpu/vtrender"
	"github.com/gogpu/vtrender/backend"
	"github.com/gogpu/vtrender/config"
)

func main() {
	var (
		rows       = flag.Int("rows", 24, "grid rows")
		cols       = flag.Int("cols", 80, "grid columns")
		themePath  = flag.String("theme", "", "path to a TOML theme file (default: built-in theme)")
		cpuOnly    = flag.Bool("cpu-only", false, "force the CPU fallback backend")
		requireGPU = flag.Bool("require-gpu", false, "fail instead of falling back to CPU")
	)
	flag.Parse()

	theme := defaultTheme()
	if *themePath != "" {
		loaded, err := config.LoadTheme(*themePath)
		if err != nil {
			log.Fatalf("loading theme: %v", err)
		}
		theme = loaded
	}

	cfg := backend.Config{Type: backend.TypeGPUWebGL, Fallback: backend.FallbackPreferGPU}
	switch {
	case *cpuOnly:
		cfg = backend.Config{Type: backend.TypeCPU2D, Fallback: backend.FallbackCPUOnly}
	case *requireGPU:
		cfg.Fallback = backend.FallbackRequireGPU
	}
	preferred := backend.DetectPreferredBackend(cfg)
	log.Printf("detected backend: %s", preferred.Type)

	metrics := vtrender.Metrics{
		DevicePixelRatio: 1,
		Cell:             vtrender.CellMetrics{Width: 9, Height: 18, Baseline: 14},
		Font:             vtrender.FontMetrics{Family: "monospace", Size: 15, LineHeight: 18},
	}

	snapshot := blankSnapshot(*rows, *cols)
	renderer, err := vtrender.New(snapshot, metrics, theme, vtrender.WithBackendConfig(cfg))
	if err != nil {
		log.Fatalf("constructing renderer: %v", err)
	}
	defer renderer.Dispose()

	greet := "vtrenderdemo"
	for i, ch := range greet {
		if i >= *cols {
			break
		}
		snapshot.Buffer[0][i] = vtrender.Cell{Char: string(ch), Attr: vtrender.Attr{Foreground: vtrender.RGBColor(0, 220, 0)}}
	}
	err = renderer.ApplyUpdates(snapshot, []vtrender.TerminalUpdate{{
		Kind:  vtrender.UpdateCells,
		Cells: cellChangesForRow(0, len(greet)),
	}})
	if err != nil {
		log.Fatalf("applying updates: %v", err)
	}

	diag := renderer.Diagnostics()
	log.Printf("backend=%s draw_calls=%d cells_processed=%d frame_duration=%.6fs",
		diag.Backend, diag.LastDrawCallCount, diag.CellsProcessed, diag.LastFrameDuration)
}

func blankSnapshot(rows, cols int) *vtrender.TerminalState {
	buf := make([][]vtrender.Cell, rows)
	for r := range buf {
		row := make([]vtrender.Cell, cols)
		for c := range row {
			row[c] = vtrender.Cell{Char: " "}
		}
		buf[r] = row
	}
	return &vtrender.TerminalState{Rows: rows, Columns: cols, Buffer: buf, ScrollBottom: rows - 1}
}

func cellChangesForRow(row, count int) []vtrender.CellChange {
	changes := make([]vtrender.CellChange, count)
	for i := range changes {
		changes[i] = vtrender.CellChange{Row: row, Column: i}
	}
	return changes
}

func defaultTheme() vtrender.Theme {
	return vtrender.Theme{
		Foreground: vtrender.RGBColor(0xee, 0xee, 0xee),
		Background: vtrender.RGBColor(0x10, 0x10, 0x10),
		Cursor:     vtrender.CursorTheme{Color: vtrender.RGBColor(0xff, 0xff, 0xff), Opacity: 1, Shape: vtrender.CursorBlock},
	}
}
