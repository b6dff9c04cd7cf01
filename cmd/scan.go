package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soocke/cube-scanner-go/capture"
	domcapture "github.com/soocke/cube-scanner-go/domain/capture"
	"github.com/soocke/cube-scanner-go/domain/scan"
	"github.com/soocke/cube-scanner-go/domain/solve"
	"github.com/soocke/cube-scanner-go/server"
)

var (
	scanSource  string
	scanCamera  int
	scanTimeout time.Duration
	scanNoSolve bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the six faces from the camera or screen in the terminal, then solve",
	Long: "Show each face to the camera in the order up, right, front, down, left, back.\n" +
		"A face is captured once it is held still with the expected center color.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("source") {
			cfg.Source = scanSource
		}
		if cmd.Flags().Changed("camera") {
			cfg.CameraDevice = scanCamera
		}
		_ = cfg.Validate()
		if cfg.Source == "replay" {
			return errors.New("scan reads a live source; use the replay command for recorded frames")
		}
		ctx := cmd.Context()
		if scanTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, scanTimeout)
			defer cancel()
		}
		return runScan(ctx)
	},
}

func runScan(ctx context.Context) error {
	g, err := capture.Open(cfg, "", nil)
	if err != nil {
		Die("Failed to open "+cfg.Source+" source", err)
	}
	defer g.Close()

	svc := domcapture.NewCaptureService(g, cfg.FrameInterval(), capture.ErrEndOfFrames, logger)
	sess := scan.NewSession(cfg, logger)
	h := newHeadless(sess, solve.NewExecSolver(cfg.SolverCommand, cfg.SolverArgs...), os.Stdout, os.Stderr, logger)

	if cfg.ListenAddr != "" {
		h.srv = server.New(logger, svc)
		go func() {
			if err := h.srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
				logger.Error("status server stopped", "error", err)
			}
		}()
	}
	if h.hist, err = openHistory(ctx); err != nil {
		logger.Warn("solve history disabled", "error", err)
	}

	if err := scanLive(ctx, svc, h); err != nil {
		return fmt.Errorf("scan interrupted with %d of 6 faces: %w", sess.State().Count(), err)
	}
	if scanNoSolve {
		s, err := sess.CubeString()
		if err != nil {
			return err
		}
		fmt.Println(s)
		return nil
	}
	return h.finish(ctx)
}

// scanLive polls the capture service at the frame interval and submits each
// new frame until every face is captured.
func scanLive(ctx context.Context, svc domcapture.CaptureService, h *headless) error {
	svc.Start()
	defer svc.Stop()
	t := time.NewTicker(cfg.FrameInterval())
	defer t.Stop()
	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-svc.Done():
			return errors.New("frame source ended")
		case <-t.C:
		}
		snap := svc.LatestFrame()
		if snap.Image == nil || snap.Sequence == seq {
			continue
		}
		seq = snap.Sequence
		st := h.sess.SubmitFrame(snap.Image, snap.CapturedAt)
		h.observe(st)
		if st.Complete {
			return nil
		}
	}
}

func init() {
	scanCmd.Flags().StringVar(&scanSource, "source", "camera", "frame source: camera or screen")
	scanCmd.Flags().IntVar(&scanCamera, "camera", 0, "camera device index")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "give up after this long (0 waits forever)")
	scanCmd.Flags().BoolVar(&scanNoSolve, "no-solve", false, "print the cube string instead of solving it")
	rootCmd.AddCommand(scanCmd)
}
