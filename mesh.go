package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chazu/fdctl/pkg/kernel/sdfx"
	"github.com/spf13/cobra"
)

var (
	flagOutput    string
	flagMeshCells int
)

var meshCmd = &cobra.Command{
	Use:   "mesh <file>",
	Short: "Write triangle meshes of the geometric objects as JSON",
	Long: `Evaluate the control file and mesh every geometric object, clipped to
the computational cell, for preview in an external viewer.`,
	Args: cobra.ExactArgs(1),
	RunE: runMesh,
}

func init() {
	meshCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default stdout)")
	meshCmd.Flags().IntVar(&flagMeshCells, "cells", sdfx.DefaultMeshCells, "marching cubes cells along the longest axis")
	rootCmd.AddCommand(meshCmd)
}

func runMesh(cmd *cobra.Command, args []string) error {
	source, err := readSource(args[0])
	if err != nil {
		return err
	}

	a := newAppFromFlags(cmd.ErrOrStderr())
	a.kernel = sdfx.NewWithCells(flagMeshCells)
	res := a.Mesh(source)
	if err := printDiagnostics(cmd.ErrOrStderr(), res); err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := json.NewEncoder(w).Encode(res.Meshes); err != nil {
		return fmt.Errorf("writing meshes: %w", err)
	}
	if flagOutput != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %d meshes to %s\n", dimStyle.Render("wrote"), len(res.Meshes), flagOutput)
	}
	return nil
}
