package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"electric/load"
	"electric/utils"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-solve a topology file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd, args[0])
		},
	}
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, path string) error {
	log := utils.Logger("watch")
	if err := a.solveOnce(ctx, cmd, path); err != nil {
		return err
	}
	changes, err := load.Watch(ctx, path, a.cfg.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	log.Info("watching", "path", path)
	for range changes {
		if err := a.solveOnce(ctx, cmd, path); err != nil {
			log.Error("re-solve failed", "path", path, "err", err)
		}
	}
	return nil
}

func (a *app) solveOnce(ctx context.Context, cmd *cobra.Command, path string) error {
	s, err := a.open(ctx, path, false)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.circuit.Recalculate(); err != nil {
		return err
	}
	return printTable(cmd.OutOrStdout(), s.topo)
}
