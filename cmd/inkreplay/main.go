// Command inkreplay replays a script of engine actions and exports the
// final frame.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/inkboard/inkboard/internal/document"
	"github.com/inkboard/inkboard/internal/engine"
	"github.com/inkboard/inkboard/internal/export"
)

var (
	scriptPath string
	pngPath    string
	pdfPath    string
	width      int
	height     int
	scale      float64
	sample     bool
	verbose    bool
)

func init() {
	root.Flags().StringVarP(&scriptPath, "script", "s", "-", "Action script, one JSON action per line (\"-\" reads stdin).")
	root.Flags().StringVar(&pngPath, "png", "", "Write the final frame as PNG to this file.")
	root.Flags().StringVar(&pdfPath, "pdf", "", "Write the final frame as PDF to this file.")
	root.Flags().IntVar(&width, "width", 800, "Viewport width in pixels.")
	root.Flags().IntVar(&height, "height", 600, "Viewport height in pixels.")
	root.Flags().Float64Var(&scale, "scale", 1, "Export scale factor.")
	root.Flags().BoolVar(&sample, "sample", false, "Start from the sample document.")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log engine activity to stderr.")
}

var root = &cobra.Command{
	Use:   "inkreplay",
	Short: "Replay drawing actions and export the result.",
	Long: `inkreplay reads actions such as {"type":"press","x":10,"y":20}, one per
line, applies them to a fresh document and writes the final frame as PNG
and/or PDF. Blank lines and lines starting with # are skipped.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			engine.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}

		eng := engine.NewEngine(engine.DefaultOptions())
		if err := eng.Dispatch(engine.Resize{Width: width, Height: height}); err != nil {
			return err
		}
		if sample {
			if err := eng.LoadStrokes(document.NewSampleStrokes()); err != nil {
				return err
			}
		}

		var in io.Reader = cmd.InOrStdin()
		if scriptPath != "-" {
			f, err := os.Open(scriptPath)
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		n, err := replay(in, eng)
		if err != nil {
			return err
		}
		frame := eng.Render()
		cmd.Printf("replayed %d actions, %d strokes, %d draw commands\n", n, eng.Document().Len(), len(frame.Commands))

		if pngPath != "" {
			if err := writeFile(pngPath, func(w io.Writer) error { return export.WritePNG(w, frame, scale) }); err != nil {
				return err
			}
		}
		if pdfPath != "" {
			if err := writeFile(pdfPath, func(w io.Writer) error { return export.WritePDF(w, frame, scale) }); err != nil {
				return err
			}
		}
		return nil
	},
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func main() {
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
