package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"electric/debug"
	"electric/utils"
)

func newChartCmd(a *app) *cobra.Command {
	var html, png, serve string
	cmd := &cobra.Command{
		Use:   "chart <file>",
		Short: "Solve once and render the recorded pass as HTML or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if html == "" && png == "" && serve == "" {
				return errors.New("one of --html, --png or --serve is required")
			}
			s, err := a.open(cmd.Context(), args[0], true)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.circuit.Recalculate(); err != nil {
				return err
			}

			charts := &debug.Charts{Record: s.record}
			if html != "" {
				if err := writeFile(html, charts.Render); err != nil {
					return err
				}
			}
			if png != "" {
				if err := writeFile(png, func(w io.Writer) error {
					return s.record.Plot(w, debug.PlotWidth, debug.PlotHeight)
				}); err != nil {
					return err
				}
			}
			if serve != "" {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return serveCharts(ctx, serve, charts)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&html, "html", "", "write an HTML chart page")
	cmd.Flags().StringVar(&png, "png", "", "write a PNG plot of branch currents")
	cmd.Flags().StringVar(&serve, "serve", "", "serve the chart page on this address")
	return cmd
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}

func serveCharts(ctx context.Context, addr string, charts *debug.Charts) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(charts.Handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	utils.Logger("chart").Info("serving charts", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}
