package debug

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"electric"
	"electric/element"
	"electric/network"
	"electric/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeries(t *testing.T) (*network.Network, *network.Branch) {
	t.Helper()
	bat, err := element.NewSource("bat", 0, 9, types.Forward)
	require.NoError(t, err)
	lamp, err := element.NewWire("lamp", 3)
	require.NoError(t, err)

	net := network.New()
	a := net.AddBranch("A", types.Forward, bat)
	b := net.AddBranch("B", types.Forward, lamp)
	_, err = net.AddCycle("loop", []*network.Branch{a, b}, []types.Direction{types.Forward, types.Forward})
	require.NoError(t, err)
	_, err = net.AddNode("joint", []*network.Branch{a}, []*network.Branch{b})
	require.NoError(t, err)
	return net, b
}

func TestRecordUpdate(t *testing.T) {
	net, _ := newSeries(t)
	rec := NewRecord(net)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	var sunk []Pass
	rec.Sink = func(p Pass) { sunk = append(sunk, p) }

	c := electric.NewCircuit(net, electric.WithDebug(rec))
	require.NoError(t, c.Recalculate())
	require.NoError(t, c.Recalculate())

	assert.Equal(t, []string{"A", "B"}, rec.Branches)
	require.Len(t, rec.Nodes, 1)
	assert.Equal(t, NodeLinks{Name: "joint", Incoming: []string{"A"}, Outgoing: []string{"B"}}, rec.Nodes[0])

	require.Len(t, rec.Passes, 2)
	require.Len(t, sunk, 2)
	p, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, 2, p.Seq)
	assert.Equal(t, fixed, p.Time)
	assert.Equal(t, []string{"cycle:loop", "node:joint"}, p.Rows)
	require.Len(t, p.Branches, 2)
	assert.Equal(t, "B", p.Branches[1].Name)
	assert.InDelta(t, 3.0, p.Branches[1].Current, 1e-9)
	assert.Equal(t, "forward", p.Branches[1].Direction)

	require.Len(t, p.Matrix, 2)
	assert.InDelta(t, -3.0, p.Matrix[0][1], 1e-12)
	assert.InDelta(t, 1.0, p.Matrix[1][0], 1e-12)
	assert.InDelta(t, -1.0, p.Matrix[1][1], 1e-12)
	assert.InDelta(t, -9.0, p.RHS[0], 1e-12)
	assert.InDelta(t, 0.0, p.Residual, 1e-9)
}

func TestRecordDisabled(t *testing.T) {
	net, _ := newSeries(t)
	rec := NewRecord(net)
	rec.SetDebug(false)
	assert.False(t, rec.IsDebug())

	require.NoError(t, electric.NewCircuit(net, electric.WithDebug(rec)).Recalculate())
	_, ok := rec.Last()
	assert.False(t, ok)

	rec.SetDebug(true)
	require.NoError(t, electric.NewCircuit(net, electric.WithDebug(rec)).Recalculate())
	_, ok = rec.Last()
	assert.True(t, ok)
}

func TestRecordRender(t *testing.T) {
	net, _ := newSeries(t)
	rec := NewRecord(net)
	require.NoError(t, electric.NewCircuit(net, electric.WithDebug(rec)).Recalculate())

	var buf bytes.Buffer
	require.NoError(t, rec.Render(&buf))

	var decoded struct {
		Branches []string `json:"branches"`
		Passes   []Pass   `json:"passes"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"A", "B"}, decoded.Branches)
	require.Len(t, decoded.Passes, 1)
	assert.InDelta(t, 3.0, decoded.Passes[0].Branches[0].Current, 1e-9)
}

func TestChartsRender(t *testing.T) {
	net, _ := newSeries(t)
	rec := NewRecord(net)
	c := &Charts{Record: rec}

	// 没有记录时也能渲染
	var empty bytes.Buffer
	require.NoError(t, c.Render(&empty))

	require.NoError(t, electric.NewCircuit(net, electric.WithDebug(rec)).Recalculate())
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "node:joint")

	srv := httptest.NewServer(http.HandlerFunc(c.Handler))
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPlot(t *testing.T) {
	net, b := newSeries(t)
	rec := NewRecord(net)

	var buf bytes.Buffer
	assert.ErrorIs(t, rec.Plot(&buf, PlotWidth, PlotHeight), ErrNoPasses)

	c := electric.NewCircuit(net, electric.WithDebug(rec))
	require.NoError(t, c.Recalculate())
	b.SetDirection(types.Open)
	require.NoError(t, c.Recalculate())

	buf.Reset()
	require.NoError(t, rec.Plot(&buf, PlotWidth, PlotHeight))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestCurrentsSign(t *testing.T) {
	got := currents(Pass{Branches: []BranchState{
		{Name: "a", Current: 2, Direction: "forward"},
		{Name: "b", Current: 1.5, Direction: "backward"},
	}})
	assert.Equal(t, map[string]float64{"a": 2, "b": -1.5}, got)
}
