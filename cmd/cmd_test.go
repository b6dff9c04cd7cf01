package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/soocke/cube-scanner-go/capture"
	"github.com/soocke/cube-scanner-go/config"
	"github.com/soocke/cube-scanner-go/domain/classify"
	"github.com/soocke/cube-scanner-go/domain/cube"
	"github.com/soocke/cube-scanner-go/domain/scan"
	"github.com/soocke/cube-scanner-go/domain/solve"
	"github.com/soocke/cube-scanner-go/store"
	"github.com/soocke/cube-scanner-go/ui/images"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// writeSolvedFrames paints perFace frames of every face in scan order, each
// filled with the color of that face's center.
func writeSolvedFrames(t *testing.T, perFace int) string {
	t.Helper()
	dir := t.TempDir()
	n := 0
	for _, f := range scan.Sequence {
		col := images.LabelColor(f.ExpectedCenter())
		img := image.NewRGBA(image.Rect(0, 0, 320, 240))
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = col.R, col.G, col.B, 255
		}
		for range perFace {
			fh, err := os.Create(filepath.Join(dir, fmt.Sprintf("frame_%03d.png", n)))
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if err := png.Encode(fh, img); err != nil {
				t.Fatalf("encode: %v", err)
			}
			fh.Close()
			n++
		}
	}
	return dir
}

func replayConfig() *config.Config {
	c := config.DefaultConfig()
	c.StabilitySeconds = 0.1
	c.FrameIntervalMs = 50
	c.Source = "replay"
	_ = c.Validate()
	return c
}

func TestRunReplay_SolvesPaintedCube(t *testing.T) {
	dir := writeSolvedFrames(t, 5)
	var gotCube string
	solver := solve.SolverFunc(func(_ context.Context, s string) (string, error) {
		gotCube = s
		return "R U R' U'", nil
	})
	var out bytes.Buffer
	err := runReplay(context.Background(), replayConfig(), discardLogger(), replayOptions{
		Dir:    dir,
		Solver: solver,
		Out:    &out,
		BarOut: io.Discard,
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	want := strings.Repeat("U", 9) + strings.Repeat("R", 9) + strings.Repeat("F", 9) +
		strings.Repeat("D", 9) + strings.Repeat("L", 9) + strings.Repeat("B", 9)
	if gotCube != want {
		t.Fatalf("solver got %q want %q", gotCube, want)
	}
	if !strings.Contains(out.String(), "Solution: R U R' U'") {
		t.Fatalf("output missing solution:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Cube: "+want) {
		t.Fatalf("output missing cube:\n%s", out.String())
	}
}

func TestRunReplay_CoarseMatchesReclassified(t *testing.T) {
	dir := writeSolvedFrames(t, 5)
	var gotCube string
	solver := solve.SolverFunc(func(_ context.Context, s string) (string, error) {
		gotCube = s
		return "", nil
	})
	var out bytes.Buffer
	err := runReplay(context.Background(), replayConfig(), discardLogger(), replayOptions{
		Dir: dir, Coarse: true, Solver: solver, Out: &out, BarOut: io.Discard,
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.HasPrefix(gotCube, "UUUUUUUUURRRRRRRRR") {
		t.Fatalf("coarse cube %q", gotCube)
	}
	if !strings.Contains(out.String(), "already solved") {
		t.Fatalf("empty solution should print as solved:\n%s", out.String())
	}
}

func TestRunReplay_IncompleteScan(t *testing.T) {
	// one frame per face never reaches the stability time
	dir := writeSolvedFrames(t, 1)
	err := runReplay(context.Background(), replayConfig(), discardLogger(), replayOptions{
		Dir:    dir,
		Solver: solve.SolverFunc(func(context.Context, string) (string, error) { return "", nil }),
		Out:    io.Discard,
		BarOut: io.Discard,
	})
	if err == nil || !strings.Contains(err.Error(), "of 6 faces captured") {
		t.Fatalf("expected incomplete error, got %v", err)
	}
}

func TestRunReplay_UnsolvableIsNotAnError(t *testing.T) {
	dir := writeSolvedFrames(t, 5)
	solver := solve.SolverFunc(func(context.Context, string) (string, error) {
		return "", fmt.Errorf("%w: corner twisted", solve.ErrUnsolvable)
	})
	var out bytes.Buffer
	err := runReplay(context.Background(), replayConfig(), discardLogger(), replayOptions{
		Dir: dir, Solver: solver, Out: &out, BarOut: io.Discard,
	})
	if err != nil {
		t.Fatalf("unsolvable should be reported, not returned: %v", err)
	}
	if !strings.Contains(out.String(), "Color counts") {
		t.Fatalf("missing color counts:\n%s", out.String())
	}
}

func TestReplayFrames_DeterministicTimestamps(t *testing.T) {
	dir := writeSolvedFrames(t, 5)
	c := replayConfig()
	sess := scan.NewSession(c, discardLogger())
	h := newHeadless(sess, nil, io.Discard, io.Discard, discardLogger())
	g, err := openReplayForTest(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	n, err := replayFrames(context.Background(), g, h, c.FrameInterval())
	if err != nil {
		t.Fatalf("frames: %v", err)
	}
	if !sess.IsComplete() {
		t.Fatalf("scan incomplete after %d frames", n)
	}
	if n >= 30 {
		t.Fatalf("scan should complete before the last frame, used %d", n)
	}
	if want := time.Duration(n-1) * c.FrameInterval(); h.scanDuration() != want {
		t.Fatalf("scan duration %v want %v", h.scanDuration(), want)
	}
}

func TestReplayFrames_Cancelled(t *testing.T) {
	dir := writeSolvedFrames(t, 2)
	c := replayConfig()
	h := newHeadless(scan.NewSession(c, discardLogger()), nil, io.Discard, io.Discard, discardLogger())
	g, err := openReplayForTest(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := replayFrames(ctx, g, h, c.FrameInterval()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestSolveAndPrint(t *testing.T) {
	solved := strings.Repeat("U", 9) + strings.Repeat("R", 9) + strings.Repeat("F", 9) +
		strings.Repeat("D", 9) + strings.Repeat("L", 9) + strings.Repeat("B", 9)

	var out bytes.Buffer
	ok := solve.SolverFunc(func(context.Context, string) (string, error) { return "R2 F'", nil })
	if err := solveAndPrint(context.Background(), &out, " "+solved+"\n", ok); err != nil {
		t.Fatalf("solve: %v", err)
	}
	if !strings.Contains(out.String(), "Solution: R2 F'") {
		t.Fatalf("output:\n%s", out.String())
	}

	out.Reset()
	bad := solve.SolverFunc(func(context.Context, string) (string, error) {
		return "", fmt.Errorf("%w: parity", solve.ErrUnsolvable)
	})
	if err := solveAndPrint(context.Background(), &out, solved, bad); err != nil {
		t.Fatalf("unsolvable should not fail: %v", err)
	}
	if !strings.Contains(out.String(), "Error:") {
		t.Fatalf("output:\n%s", out.String())
	}

	out.Reset()
	if err := solveAndPrint(context.Background(), &out, "UUU", ok); err == nil {
		t.Fatalf("malformed cube should fail")
	}

	missing := solve.SolverFunc(func(context.Context, string) (string, error) { return "", solve.ErrSolverMissing })
	if err := solveAndPrint(context.Background(), io.Discard, solved, missing); !errors.Is(err, solve.ErrSolverMissing) {
		t.Fatalf("expected missing solver, got %v", err)
	}
}

func TestWriteDieBox(t *testing.T) {
	var buf bytes.Buffer
	writeDieBox(&buf, "Failed to open camera source", errors.New("device busy"))
	got := buf.String()
	if !strings.Contains(got, "CUBE SCANNER ERROR: Failed to open camera source") || !strings.Contains(got, "DETAILS: device busy") {
		t.Fatalf("die box:\n%s", got)
	}

	buf.Reset()
	writeDieBox(&buf, "Stopped", nil)
	if strings.Contains(buf.String(), "DETAILS") {
		t.Fatalf("nil error should omit details:\n%s", buf.String())
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil)
	if !strings.Contains(buf.String(), "No solves recorded yet.") {
		t.Fatalf("empty history: %q", buf.String())
	}

	buf.Reset()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	printHistory(&buf, []store.Record{
		{ID: 2, Solution: "R U", Moves: 2, ScanDuration: 12340 * time.Millisecond, SolvedAt: at},
		{ID: 1, Error: "cube is not solvable", SolvedAt: at},
		{ID: 3, SolvedAt: at},
	})
	got := buf.String()
	for _, want := range []string{"ID", "12.3s", "R U", "error: cube is not solvable", "(already solved)"} {
		if !strings.Contains(got, want) {
			t.Fatalf("history missing %q:\n%s", want, got)
		}
	}
}

func TestAverageGrids(t *testing.T) {
	var a, b cube.SampleGrid
	a[0][0] = cube.Sample{H: 10, S: 0.8, V: 1, RGB: colorful.Color{R: 1, G: 0, B: 0}, Valid: true}
	b[0][0] = cube.Sample{H: 20, S: 0.6, V: 0.6, RGB: colorful.Color{R: 0.6, G: 0, B: 0}, Valid: true}
	a[1][1] = cube.Sample{H: 0, S: 0, V: 1, RGB: colorful.Color{R: 1, G: 1, B: 1}, Valid: true}
	// red on both sides of the hue wrap
	a[2][0] = cube.Sample{H: 358, S: 0.9, V: 0.8, RGB: colorful.Color{R: 0.8}, Valid: true}
	b[2][0] = cube.Sample{H: 2, S: 0.9, V: 0.8, RGB: colorful.Color{R: 0.8}, Valid: true}

	avg := averageGrids([]cube.SampleGrid{a, b})
	got := avg[0][0]
	if !got.Valid || got.H != 15 || got.S < 0.69 || got.S > 0.71 || got.V < 0.79 || got.V > 0.81 {
		t.Fatalf("mean hsv %+v", got)
	}
	if got.RGB.R < 0.79 || got.RGB.R > 0.81 {
		t.Fatalf("mean rgb %+v", got.RGB)
	}
	// invalid samples are skipped rather than averaged as black
	if c := avg[1][1]; !c.Valid || c.V != 1 || c.RGB.R != 1 {
		t.Fatalf("single valid sample %+v", c)
	}
	if avg[2][2].Valid {
		t.Fatalf("cell without samples should stay invalid")
	}

	// the per-frame hue mean is arithmetic, so the calibration must report
	// the same value the scanner classifies
	if h := avg[2][0].H; h != 180 {
		t.Fatalf("wrapped hue mean %v, want arithmetic 180", h)
	}
	cl := classify.New(config.DefaultConfig())
	frameMean := cube.Sample{H: 180, S: 0.9, V: 0.8, RGB: colorful.Color{R: 0.8}, Valid: true}
	if cl.Classify(avg[2][0]) != cl.Classify(frameMean) {
		t.Fatalf("calibration label differs from scanner label")
	}
}

func TestWriteCalibration(t *testing.T) {
	c := config.DefaultConfig()
	var grid cube.SampleGrid
	white := colorful.Color{R: 0.95, G: 0.95, B: 0.95}
	h, s, v := white.Hsv()
	grid[1][1] = cube.Sample{H: h, S: s, V: v, RGB: white, Valid: true}

	var buf bytes.Buffer
	writeCalibration(&buf, grid, classify.New(c))
	got := buf.String()
	if !strings.Contains(got, "CELL") || !strings.Contains(got, "PRESET") {
		t.Fatalf("headers missing:\n%s", got)
	}
	var centerRow string
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "1,1") {
			centerRow = line
		}
	}
	if !strings.Contains(centerRow, "white") {
		t.Fatalf("center row should classify white: %q", centerRow)
	}
	if !strings.Contains(got, "0,0") || !strings.Contains(got, cube.Unknown.String()) {
		t.Fatalf("invalid cells should print as unknown:\n%s", got)
	}
}

func openReplayForTest(dir string) (*capture.ReplayGrabber, error) { return capture.OpenReplay(dir) }
