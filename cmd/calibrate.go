package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"

	"github.com/soocke/cube-scanner-go/capture"
	"github.com/soocke/cube-scanner-go/domain/classify"
	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/domain/sampler"
)

var (
	calibrateFrames int
	calibrateDir    string
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Print the averaged HSV of each grid cell and the stock color presets",
	Long: "Hold one face in the grid and run calibrate. The per-cell values show which hue\n" +
		"bands and white saturation threshold the current lighting needs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			g   capture.Grabber
			err error
		)
		if calibrateDir != "" {
			g, err = capture.OpenReplay(calibrateDir)
		} else {
			g, err = capture.Open(cfg, "", nil)
		}
		if err != nil {
			Die("Failed to open frame source", err)
		}
		defer g.Close()

		s := sampler.New(cfg)
		var grids []cube.SampleGrid
		for len(grids) < calibrateFrames {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			img, err := g.Grab()
			if errors.Is(err, capture.ErrEndOfFrames) {
				break
			}
			if err != nil {
				logger.Warn("grab failed", "error", err)
			} else {
				grids = append(grids, s.Sample(img))
			}
			if calibrateDir == "" {
				time.Sleep(cfg.FrameInterval())
			}
		}
		if len(grids) == 0 {
			return errors.New("calibrate: no frames captured")
		}
		writeCalibration(os.Stdout, averageGrids(grids), classify.New(cfg))
		return nil
	},
}

// averageGrids averages each cell over all valid samples. H, S and V are
// averaged component-wise like the sampler does, so the LABEL column is what
// the scanner would classify.
func averageGrids(grids []cube.SampleGrid) cube.SampleGrid {
	var out cube.SampleGrid
	for r := range 3 {
		for c := range 3 {
			var sum cube.Sample
			n := 0
			for _, g := range grids {
				s := g[r][c]
				if !s.Valid {
					continue
				}
				sum.H += s.H
				sum.S += s.S
				sum.V += s.V
				sum.RGB.R += s.RGB.R
				sum.RGB.G += s.RGB.G
				sum.RGB.B += s.RGB.B
				n++
			}
			if n == 0 {
				continue
			}
			k := float64(n)
			out[r][c] = cube.Sample{
				H:     sum.H / k,
				S:     sum.S / k,
				V:     sum.V / k,
				RGB:   colorful.Color{R: sum.RGB.R / k, G: sum.RGB.G / k, B: sum.RGB.B / k},
				Valid: true,
			}
		}
	}
	return out
}

func writeCalibration(out io.Writer, grid cube.SampleGrid, cl *classify.Classifier) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CELL\tH(deg)\tS\tV\tOPENCV H/S/V\tLABEL\tPRESETS")
	for r := range 3 {
		for c := range 3 {
			s := grid[r][c]
			if !s.Valid {
				fmt.Fprintf(w, "%d,%d\t-\t-\t-\t-\t%s\t-\n", r, c, cube.Unknown)
				continue
			}
			var presets []string
			for _, p := range classify.MatchPresets(s) {
				presets = append(presets, p.String())
			}
			if len(presets) == 0 {
				presets = []string{"none"}
			}
			fmt.Fprintf(w, "%d,%d\t%.1f\t%.2f\t%.2f\t%d/%d/%d\t%s\t%s\n", r, c, s.H, s.S, s.V,
				int(s.H/2+0.5), int(s.S*255+0.5), int(s.V*255+0.5), cl.Classify(s), strings.Join(presets, ","))
		}
	}
	w.Flush()

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tH(deg)\tS\tV")
	for _, p := range classify.Presets() {
		fmt.Fprintf(w, "%s\t%.0f-%.0f\t%.2f-%.2f\t%.2f-%.2f\n", p.Color, p.H.Min, p.H.Max, p.S.Min, p.S.Max, p.V.Min, p.V.Max)
	}
	w.Flush()
}

func init() {
	calibrateCmd.Flags().IntVar(&calibrateFrames, "frames", 30, "number of frames to average")
	calibrateCmd.Flags().StringVar(&calibrateDir, "dir", "", "read frames from this directory instead of the live source")
	rootCmd.AddCommand(calibrateCmd)
}
