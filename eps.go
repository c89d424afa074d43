package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/fdctl/pkg/geom"
	"github.com/spf13/cobra"
)

var (
	flagAt   []string
	flagJSON bool
)

var epsCmd = &cobra.Command{
	Use:   "eps <file>",
	Short: "Print the dielectric constant at points",
	Long: `Evaluate the control file and resolve the dielectric constant at each
--at point. Points are comma-separated coordinates in the cell's own
system: x; x,y; r,z for cylindrical cells; or x,y,z. Missing trailing
coordinates are zero.`,
	Example: `  fdctl eps waveguide.ctl --at 0,0 --at 1.5,0`,
	Args:    cobra.ExactArgs(1),
	RunE:    runEps,
}

func init() {
	epsCmd.Flags().StringArrayVar(&flagAt, "at", nil, "point to evaluate (repeatable)")
	epsCmd.Flags().BoolVar(&flagJSON, "json", false, "print results as JSON")
	_ = epsCmd.MarkFlagRequired("at")
	rootCmd.AddCommand(epsCmd)
}

// parsePoint reads "x[,y[,z]]".
func parsePoint(s string) (geom.Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) > 3 {
		return geom.Vector3{}, fmt.Errorf("point %q has more than 3 coordinates", s)
	}
	var c [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geom.Vector3{}, fmt.Errorf("point %q: %w", s, err)
		}
		c[i] = f
	}
	return geom.Vector3{X: c[0], Y: c[1], Z: c[2]}, nil
}

func runEps(cmd *cobra.Command, args []string) error {
	points := make([]geom.Vector3, 0, len(flagAt))
	for _, s := range flagAt {
		p, err := parsePoint(s)
		if err != nil {
			return err
		}
		points = append(points, p)
	}

	source, err := readSource(args[0])
	if err != nil {
		return err
	}
	res := newAppFromFlags(cmd.ErrOrStderr()).EpsAt(source, points)
	out := cmd.OutOrStdout()
	if err := printDiagnostics(cmd.ErrOrStderr(), res); err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Points)
	}
	for _, p := range res.Points {
		if p.Error != "" {
			fmt.Fprintf(out, "%s  %s\n", p.Point, errorStyle.Render(p.Error))
			continue
		}
		fmt.Fprintf(out, "%s  %s\n", p.Point, titleStyle.Render(strconv.FormatFloat(p.Epsilon, 'g', -1, 64)))
	}
	return nil
}
