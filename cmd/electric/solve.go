package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"electric/load"
)

func newSolveCmd(a *app) *cobra.Command {
	var export string
	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Solve a topology file and print branch currents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context(), args[0], false)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.circuit.Recalculate(); err != nil {
				return err
			}
			if err := printTable(cmd.OutOrStdout(), s.topo); err != nil {
				return err
			}
			if s.record != nil && a.cfg.Debug.Enabled {
				if err := s.record.Render(cmd.ErrOrStderr()); err != nil {
					return err
				}
			}
			if export != "" {
				if err := load.ExportFile(export, s.topo); err != nil {
					return fmt.Errorf("failed to export %s: %w", export, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&export, "export", "", "write the solved topology to this file (.yaml, .toml or .net)")
	return cmd
}
