package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"electric"
	"electric/config"
	"electric/debug"
	"electric/graph"
	"electric/load"
	"electric/store"
	"electric/utils"
)

// app 子命令共享的运行状态
type app struct {
	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "electric",
		Short:         "DC branch-current solver",
		Long:          "Electric solves branch currents of a DC network from its cycles (KVL) and nodes (KCL).",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().String("config", "", "config file (default .electric.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newSolveCmd(a),
		newWatchCmd(a),
		newChartCmd(a),
		newHistoryCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.Init(cfgFile); err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		if err := viper.BindPFlag("log.level", f); err != nil {
			return fmt.Errorf("failed to bind --log-level: %w", err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	level, _ := utils.ParseLevel(cfg.Log.Level)
	utils.SetLogger(utils.NewTextLogger(level))
	a.cfg = cfg
	return nil
}

// session 一次加载与求解
type session struct {
	topo    *load.Topology
	circuit *electric.Circuit
	record  *debug.Record
	history *store.History
}

// open 加载拓扑并创建求解器；record 为真或配置开启调试时记录每轮结果
func (a *app) open(ctx context.Context, path string, record bool) (*session, error) {
	topo, err := load.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, w := range graph.Analyze(topo.Network).Warnings() {
		utils.Logger("graph").Warn(w, "file", path)
	}
	s := &session{topo: topo}
	opts := []electric.Option{electric.WithTolerance(a.cfg.Solver.PivotTolerance)}
	if record || a.cfg.Debug.Enabled || a.cfg.Debug.HistoryDB != "" {
		s.record = debug.NewRecord(topo.Network)
		opts = append(opts, electric.WithDebug(s.record))
	}
	if db := a.cfg.Debug.HistoryDB; db != "" {
		if s.history, err = store.Open(db); err != nil {
			return nil, err
		}
		log := utils.Logger("history")
		s.record.Sink = s.history.Sink(ctx, func(err error) {
			log.Error("save pass", "db", db, "err", err)
		})
	}
	s.circuit = electric.NewCircuit(topo.Network, opts...)
	return s, nil
}

func (s *session) Close() error {
	if s.history != nil {
		return s.history.Close()
	}
	return nil
}

// printTable 输出支路与导体电流
func printTable(w io.Writer, topo *load.Topology) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BRANCH\tDIRECTION\tCURRENT (A)")
	for _, b := range topo.Network.Branches() {
		fmt.Fprintf(tw, "%s\t%s\t%.6g\n", b.Name(), b.Direction(), b.Current())
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CONDUCTOR\tRESISTANCE (Ω)\tCURRENT (A)")
	for _, c := range topo.Conductors {
		fmt.Fprintf(tw, "%s\t%.6g\t%.6g\n", c.Name(), c.Resistance(), c.Current())
	}
	return tw.Flush()
}
