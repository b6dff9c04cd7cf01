package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soocke/cube-scanner-go/capture"
	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/domain/scan"
	"github.com/soocke/cube-scanner-go/domain/solve"
	"github.com/soocke/cube-scanner-go/store"
)

var replayCoarse bool

var replayCmd = &cobra.Command{
	Use:   "replay <dir>",
	Short: "Feed recorded frames through the scanner at the configured frame interval",
	Long: "Frames (.png, .jpg) are read in file name order. Frame i is stamped i*frame_interval_ms\n" +
		"after the first, so stability timing does not depend on how fast the files decode.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hist, err := openHistory(cmd.Context())
		if err != nil {
			logger.Warn("solve history disabled", "error", err)
		}
		opts := replayOptions{
			Dir:    args[0],
			Coarse: replayCoarse,
			Solver: solve.NewExecSolver(cfg.SolverCommand, cfg.SolverArgs...),
			Out:    os.Stdout,
			BarOut: os.Stderr,
			Hist:   hist,
		}
		return runReplay(cmd.Context(), cfg, logger, opts)
	},
}

type replayOptions struct {
	Dir    string
	Coarse bool
	Solver solve.Solver
	Out    io.Writer
	BarOut io.Writer
	Hist   *store.Store
}

func runReplay(ctx context.Context, c *config.Config, l *slog.Logger, opts replayOptions) error {
	g, err := capture.OpenReplay(opts.Dir)
	if err != nil {
		return err
	}
	defer g.Close()

	sess := scan.NewSession(c, l)
	h := newHeadless(sess, opts.Solver, opts.Out, opts.BarOut, l)
	h.coarse = opts.Coarse
	h.hist = opts.Hist

	n, err := replayFrames(ctx, g, h, c.FrameInterval())
	if err != nil {
		return err
	}
	if !sess.IsComplete() {
		return fmt.Errorf("replay ended after %d frames with %d of 6 faces captured", n, sess.State().Count())
	}
	l.Info("replay complete", "frames", n)
	return h.finish(ctx)
}

// replayFrames submits frames with synthetic timestamps until the source is
// exhausted or the scan completes. It returns the number of frames used.
func replayFrames(ctx context.Context, g capture.Grabber, h *headless, interval time.Duration) (int, error) {
	base := time.Unix(0, 0)
	for i := 0; ; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		img, err := g.Grab()
		if errors.Is(err, capture.ErrEndOfFrames) {
			return i, nil
		}
		if err != nil {
			return i, err
		}
		st := h.sess.SubmitFrame(img, base.Add(time.Duration(i)*interval))
		h.observe(st)
		if st.Complete {
			return i + 1, nil
		}
	}
}

func init() {
	replayCmd.Flags().BoolVar(&replayCoarse, "coarse", false, "encode capture-time labels directly, skipping the Lab reclassification")
	rootCmd.AddCommand(replayCmd)
}
