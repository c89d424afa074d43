package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Flags shared by every command.
var (
	flagResolution float64
	flagChunks     int
	flagVerbose    bool
	flagRank       int
	flagTimeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "fdctl",
	Short: "Build FDTD structures from control scripts",
	Long: `fdctl evaluates a Lisp control script describing a computational cell
(dimensions, lattice size, resolution, geometric objects and their
materials), resolves the dielectric constant at every grid point and
reports the resulting structure.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&flagResolution, "resolution", 0, "override the script's grid resolution (cells per unit length)")
	pf.IntVar(&flagChunks, "chunks", 0, "override the script's chunk count")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "print the bounding-box tree")
	pf.IntVar(&flagRank, "rank", 0, "process rank; only rank 0 prints diagnostics")
	pf.DurationVar(&flagTimeout, "timeout", 0, "script evaluation timeout (default 5s)")
}

// newAppFromFlags builds an App configured by the shared flags, printing
// structure diagnostics to out.
func newAppFromFlags(out io.Writer) *App {
	a := NewApp(out, flagRank, nil)
	a.engine.Timeout = flagTimeout
	a.overrides = Overrides{
		Resolution: flagResolution,
		NumChunks:  flagChunks,
		Verbose:    flagVerbose,
	}
	return a
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading control file: %w", err)
	}
	return string(b), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
