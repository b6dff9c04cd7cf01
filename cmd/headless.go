package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/domain/scan"
	"github.com/soocke/cube-scanner-go/domain/solve"
	"github.com/soocke/cube-scanner-go/server"
	"github.com/soocke/cube-scanner-go/store"
	"github.com/soocke/cube-scanner-go/ui/presenter"
)

const solveTimeout = 30 * time.Second

// headless drives a session without a window: a terminal progress bar
// while scanning, then solve, print and record.
type headless struct {
	sess   *scan.Session
	solver solve.Solver
	srv    *server.Server
	hist   *store.Store
	out    io.Writer
	logger *slog.Logger
	coarse bool

	bar   *progressbar.ProgressBar
	hint  string
	first time.Time
	last  time.Time
}

func newHeadless(sess *scan.Session, solver solve.Solver, out, barOut io.Writer, logger *slog.Logger) *headless {
	bar := progressbar.NewOptions(cube.NumFaces*100,
		progressbar.OptionSetDescription("Scanning"),
		progressbar.OptionSetWriter(barOut),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	return &headless{sess: sess, solver: solver, out: out, logger: logger, bar: bar}
}

// observe advances the bar: 100 units per captured face plus the stability
// progress of the face being held.
func (h *headless) observe(st scan.FrameStatus) {
	if h.first.IsZero() {
		h.first = st.At
	}
	h.last = st.At
	if h.srv != nil {
		h.srv.Publish(st)
	}
	if st.Complete {
		_ = h.bar.Set(cube.NumFaces * 100)
		return
	}
	if hint := fmt.Sprintf("[%d/%d] %s", st.Step+1, cube.NumFaces, presenter.StatusText(st)); hint != h.hint {
		h.bar.Describe(hint)
		h.hint = hint
	}
	_ = h.bar.Set(st.Step*100 + int(st.Gate.Progress*100))
}

// scanDuration is the time between the first and the last observed frame.
func (h *headless) scanDuration() time.Duration { return h.last.Sub(h.first) }

type coarseSource struct{ *scan.Session }

func (c coarseSource) CubeString() (string, error) { return c.CoarseString() }

// finish solves the captured cube and prints the result. An unsolvable cube
// is reported but is not an error.
func (h *headless) finish(ctx context.Context) error {
	_ = h.bar.Finish()
	fmt.Fprintln(h.out)

	var src solve.CubeSource = h.sess
	if h.coarse {
		src = coarseSource{h.sess}
	}
	sctx, cancel := context.WithTimeout(ctx, solveTimeout)
	defer cancel()
	sol, err := solve.Run(sctx, src, h.solver)
	if h.srv != nil {
		h.srv.PublishSolution(sol, err)
	}
	h.record(ctx, sol, err)
	if err != nil {
		printLines(h.out, presenter.FailureLines(sol, err))
		if errors.Is(err, solve.ErrUnsolvable) {
			return nil
		}
		return err
	}
	fmt.Fprintf(h.out, "Cube: %s\n", sol.Cube)
	printLines(h.out, presenter.SolutionLines(sol))
	return nil
}

func (h *headless) record(ctx context.Context, sol solve.Solution, solveErr error) {
	if h.hist == nil || sol.Cube == "" {
		return
	}
	rec := store.Record{Cube: sol.Cube, Solution: sol.Raw, Moves: len(sol.Moves), ScanDuration: h.scanDuration()}
	if solveErr != nil {
		rec.Error = solveErr.Error()
	}
	id, err := h.hist.RecordSolve(ctx, rec)
	if err != nil {
		h.logger.Error("history record failed", "error", err)
		return
	}
	h.logger.Info("solve recorded", "id", id)
}

func printLines(w io.Writer, lines []string) {
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
