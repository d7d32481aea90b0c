package device

import (
	"testing"
	"time"

	"electric"
	"electric/element"
	"electric/network"
	"electric/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplianceThreshold(t *testing.T) {
	lamp, err := element.NewWire("lamp", 1)
	require.NoError(t, err)
	door := NewAppliance(lamp, 0.5, 0)
	defer door.Close()

	var changes []bool
	door.OnChange(func(_, on bool) { changes = append(changes, on) })

	assert.False(t, door.Powered())
	lamp.SetCurrent(0.5)
	assert.False(t, door.Powered(), "threshold is exclusive")
	lamp.SetCurrent(2)
	assert.True(t, door.Powered())
	lamp.SetCurrent(3)
	lamp.SetCurrent(0)
	assert.False(t, door.Powered())
	assert.Equal(t, []bool{true, false}, changes)
}

func TestApplianceOverload(t *testing.T) {
	lamp, err := element.NewWire("lamp", 1)
	require.NoError(t, err)
	door := NewAppliance(lamp, 1, 5)

	lamp.SetCurrent(3)
	assert.True(t, door.Powered())
	lamp.SetCurrent(5)
	assert.True(t, door.Powered())
	lamp.SetCurrent(5.5)
	assert.False(t, door.Powered())

	door.Close()
	lamp.SetCurrent(3)
	assert.False(t, door.Powered(), "closed device stops following current")
}

func TestSwitchRecalculates(t *testing.T) {
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

	c := electric.NewCircuit(net)
	door := NewAppliance(lamp, 1, 0)
	sw := NewSwitch(b, c)

	require.NoError(t, sw.Flip(true))
	assert.True(t, sw.Closed())
	assert.InDelta(t, 3.0, lamp.Current(), 1e-9)
	assert.True(t, door.Powered())

	require.NoError(t, sw.Toggle())
	assert.False(t, sw.Closed())
	assert.Equal(t, 0.0, lamp.Current())
	assert.False(t, door.Powered())

	require.NoError(t, sw.Toggle())
	assert.InDelta(t, 3.0, lamp.Current(), 1e-9)
	assert.True(t, door.Powered())
}

func TestSwitchFlippedFromPowerCallback(t *testing.T) {
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

	c := electric.NewCircuit(net)
	door := NewAppliance(lamp, 1, 0)
	defer door.Close()
	sw := NewSwitch(b, c)
	// 通电即断开：回调内再次触发重算
	var flips []error
	door.OnChange(func(_, on bool) {
		if on {
			flips = append(flips, sw.Flip(false))
		}
	})

	done := make(chan error, 1)
	go func() { done <- c.Recalculate() }()
	select {
	case err = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("recalculate did not return")
	}
	require.NoError(t, err)
	assert.Equal(t, []error{nil}, flips)
	assert.False(t, sw.Closed())
	assert.Equal(t, 0.0, lamp.Current())
	assert.False(t, door.Powered())

	require.NoError(t, c.Recalculate(), "circuit usable after nested request")
}

type failing struct{ calls int }

func (f *failing) Recalculate() error {
	f.calls++
	return &electric.ConfigurationError{Op: "solve", Err: electric.ErrSingular}
}

func TestSwitchPropagatesError(t *testing.T) {
	net := network.New()
	b := net.AddBranch("B", types.Forward)
	f := &failing{}
	sw := NewSwitch(b, f)
	err := sw.Flip(false)
	assert.ErrorIs(t, err, electric.ErrSingular)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, types.Open, b.Direction())

	assert.NoError(t, NewSwitch(b, nil).Flip(true))
	assert.Equal(t, types.Forward, b.Direction())
}
