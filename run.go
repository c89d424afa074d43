package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/chazu/fdctl/pkg/watcher"
	"github.com/spf13/cobra"
)

var flagWatch bool

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Build the structure described by a control file",
	Long: `Evaluate the control file, sample the dielectric function onto the grid
and print a summary of the structure. With --watch the file is rebuilt
every time it changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "rebuild whenever the file changes")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a := newAppFromFlags(cmd.OutOrStdout())
	out := cmd.OutOrStdout()

	err := runOnce(a, args[0], out)
	if !flagWatch {
		return err
	}
	reportRunError(cmd.ErrOrStderr(), err)
	return watchFile(cmd.Context(), a, args[0], out)
}

// runOnce builds the file once and prints the result to out.
func runOnce(a *App, path string, out io.Writer) error {
	source, err := readSource(path)
	if err != nil {
		return err
	}
	res := a.Run(source)
	if err := printDiagnostics(out, res); err != nil {
		return err
	}
	fmt.Fprintln(out, renderSummary(res.Summary))
	return nil
}

// watchFile rebuilds path on every change until interrupted.
func watchFile(ctx context.Context, a *App, path string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	var mu sync.Mutex
	err = fw.Watch([]string{path}, func(changed string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(out, dimStyle.Render("reloading "+changed))
		reportRunError(out, runOnce(a, path, out))
	})
	if err != nil {
		return err
	}
	fw.Start()
	fmt.Fprintln(out, dimStyle.Render("watching "+path+" (interrupt to stop)"))

	select {
	case <-ctx.Done():
	case <-fw.Done():
	}
	return nil
}

// reportRunError prints a failure that left no diagnostics behind, such
// as an unreadable file, so that watching goes on visibly.
func reportRunError(w io.Writer, err error) {
	if err != nil && !errors.Is(err, errResult) {
		fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
	}
}
