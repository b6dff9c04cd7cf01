package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soocke/cube-scanner-go/domain/solve"
	"github.com/soocke/cube-scanner-go/ui/presenter"
)

var solveCmd = &cobra.Command{
	Use:   "solve <cube>",
	Short: "Solve a 54-character cube string (URFDLB order) and print the steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		solver := solve.NewExecSolver(cfg.SolverCommand, cfg.SolverArgs...)
		err := solveAndPrint(cmd.Context(), os.Stdout, args[0], solver)
		if errors.Is(err, solve.ErrSolverMissing) {
			Die("Solver not available", err)
		}
		return err
	},
}

// solveAndPrint prints the solution steps of s. Unsolvable cubes are
// reported on w and are not an error.
func solveAndPrint(ctx context.Context, w io.Writer, s string, solver solve.Solver) error {
	sctx, cancel := context.WithTimeout(ctx, solveTimeout)
	defer cancel()
	sol, err := solve.SolveString(sctx, strings.TrimSpace(s), solver)
	if err != nil {
		if sol.Cube == "" {
			sol.Cube = strings.TrimSpace(s)
		}
		printLines(w, presenter.FailureLines(sol, err))
		if errors.Is(err, solve.ErrUnsolvable) {
			return nil
		}
		return fmt.Errorf("solve: %w", err)
	}
	printLines(w, presenter.SolutionLines(sol))
	return nil
}

func init() {
	rootCmd.AddCommand(solveCmd)
}
