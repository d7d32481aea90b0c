package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"electric"
	"electric/load"
	"electric/utils"
)

const seriesYAML = `conductors:
  - {name: bat, resistance: 0, voltage: 9, polarity: forward}
  - {name: lamp, resistance: 3}
branches:
  - {name: A, direction: forward, conductors: [bat]}
  - {name: B, direction: forward, conductors: [lamp]}
nodes:
  - {name: joint, incoming: [A], outgoing: [B]}
cycles:
  - {name: loop, branches: [A, B], directions: [forward, forward]}
`

// lockedBuffer 供并发写入的输出缓冲
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func setup(t *testing.T) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Cleanup(func() { utils.SetLogger(nil) })
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	return dir
}

func writeTopology(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSolve(t *testing.T) {
	dir := setup(t)
	path := writeTopology(t, dir, "series.yaml", seriesYAML)
	export := filepath.Join(dir, "solved.net")

	out, err := run(t, "solve", path, "--export", export)
	require.NoError(t, err)
	assert.Contains(t, out, "BRANCH")
	assert.Regexp(t, `B\s+forward\s+3\b`, out)
	assert.Regexp(t, `lamp\s+3\s+3\b`, out)

	topo, err := load.LoadFile(export)
	require.NoError(t, err)
	b, ok := topo.Network.BranchByName("B")
	require.True(t, ok)
	assert.Equal(t, "forward", b.Direction().String())
}

func TestSolveErrors(t *testing.T) {
	dir := setup(t)

	_, err := run(t, "solve")
	assert.Error(t, err)

	_, err = run(t, "solve", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	singular := strings.Replace(seriesYAML, "{name: lamp, resistance: 3}", "{name: lamp, resistance: 0}", 1)
	path := writeTopology(t, dir, "short.yaml", singular)
	_, err = run(t, "solve", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, electric.ErrSingular))
	assert.True(t, electric.IsConfigurationError(err))

	_, err = run(t, "--log-level", "loud", "solve", path)
	assert.Error(t, err)
}

func TestLogLevelFlagBound(t *testing.T) {
	dir := setup(t)
	path := writeTopology(t, dir, "series.yaml", seriesYAML)
	t.Setenv("ELECTRIC_LOG_LEVEL", "error")

	_, err := run(t, "--log-level", "warn", "solve", path)
	require.NoError(t, err)
	assert.Equal(t, "warn", viper.GetString("log.level"), "flag overrides environment")
}

func TestConfigFileTolerance(t *testing.T) {
	dir := setup(t)
	path := writeTopology(t, dir, "series.yaml", seriesYAML)
	cfg := writeTopology(t, dir, "cfg.yaml", "solver:\n  pivot_tolerance: 100\n")

	// 阈值大于所有主元时判为奇异
	_, err := run(t, "--config", cfg, "solve", path)
	assert.ErrorIs(t, err, electric.ErrSingular)
}

func TestHistory(t *testing.T) {
	dir := setup(t)
	path := writeTopology(t, dir, "series.yaml", seriesYAML)
	db := filepath.Join(dir, "history.db")
	t.Setenv("ELECTRIC_DEBUG_HISTORY_DB", db)

	_, err := run(t, "solve", path)
	require.NoError(t, err)
	_, err = run(t, "solve", path)
	require.NoError(t, err)

	out, err := run(t, "history", db, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "B=3(forward)")
	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out), "\n")+1)

	out, err = run(t, "history")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(strings.TrimSpace(out), "\n")+1)
}

func TestHistoryRequiresDB(t *testing.T) {
	setup(t)
	_, err := run(t, "history")
	assert.Error(t, err)
}

func TestChart(t *testing.T) {
	dir := setup(t)
	path := writeTopology(t, dir, "series.yaml", seriesYAML)
	html := filepath.Join(dir, "out.html")
	png := filepath.Join(dir, "out.png")

	_, err := run(t, "chart", path)
	assert.Error(t, err)

	_, err = run(t, "chart", path, "--html", html, "--png", png)
	require.NoError(t, err)

	data, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(data), "echarts")
	data, err = os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestWatch(t *testing.T) {
	dir := setup(t)
	path := writeTopology(t, dir, "series.yaml", seriesYAML)
	t.Setenv("ELECTRIC_WATCH_DEBOUNCE", "20ms")

	out := &lockedBuffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"watch", path})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "BRANCH") == 1
	}, 5*time.Second, 10*time.Millisecond)

	// 负载改为 4.5 Ω，电流变为 2 A
	changed := strings.Replace(seriesYAML, "resistance: 3}", "resistance: 4.5}", 1)
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(changed), 0o644)
		return strings.Contains(out.String(), "4.5")
	}, 5*time.Second, 100*time.Millisecond)
	assert.Regexp(t, `B\s+forward\s+2\b`, out.String())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
