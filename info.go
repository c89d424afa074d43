package main

import (
	"fmt"
	"strings"

	"github.com/chazu/fdctl/pkg/geom"
	"github.com/chazu/fdctl/pkg/structure"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Describe the scene in a control file without building it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	source, err := readSource(args[0])
	if err != nil {
		return err
	}
	a := newAppFromFlags(cmd.OutOrStdout())
	res := newResult()
	scene := a.evaluate(source, &res)
	if scene != nil {
		defer scene.Close()
		for _, w := range geom.Validate(scene.Geometry) {
			res.Warnings = append(res.Warnings, EvalErrorData{Message: w.Error()})
		}
	}
	out := cmd.OutOrStdout()
	if err := printDiagnostics(out, res); err != nil {
		return err
	}
	if scene == nil {
		return errResult
	}

	dims := fmt.Sprint(scene.Dimensions)
	if scene.Dimensions == structure.Cylindrical {
		dims = "cylindrical"
	}
	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render("Scene"))
	fmt.Fprintf(&b, "dimensions   %s\n", dims)
	fmt.Fprintf(&b, "lattice size %s\n", scene.Size)
	fmt.Fprintf(&b, "resolution   %g\n", scene.Resolution)
	fmt.Fprintf(&b, "chunks       %d\n", scene.NumChunks)
	fmt.Fprintf(&b, "objects      %d\n", len(scene.Geometry))
	for _, obj := range scene.Geometry {
		geom.DisplayObject(&b, 2, obj)
	}
	fmt.Fprint(out, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
	fmt.Fprintln(out)
	return nil
}
