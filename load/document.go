// Package load 读写电路拓扑文件（YAML、TOML、网表）。
package load

import (
	"errors"
	"fmt"

	"electric/element"
	"electric/network"
	"electric/types"
)

var (
	// ErrUnknown 引用了不存在的导体或支路
	ErrUnknown = errors.New("未定义的引用")
	// ErrDuplicate 名称重复
	ErrDuplicate = errors.New("名称重复")
	// ErrMismatch 回路支路与方向数量不一致
	ErrMismatch = errors.New("支路与方向数量不一致")
)

// Document 拓扑文档，三种格式共用
type Document struct {
	Conductors []ConductorDoc `yaml:"conductors" toml:"conductors"`
	Branches   []BranchDoc    `yaml:"branches" toml:"branches"`
	Nodes      []NodeDoc      `yaml:"nodes,omitempty" toml:"nodes,omitempty"`
	Cycles     []CycleDoc     `yaml:"cycles" toml:"cycles"`
}

// ConductorDoc 导体；给出极性即为电源
type ConductorDoc struct {
	Name       string  `yaml:"name" toml:"name"`
	Resistance float64 `yaml:"resistance" toml:"resistance"`
	Voltage    float64 `yaml:"voltage,omitempty" toml:"voltage,omitempty"`
	Polarity   string  `yaml:"polarity,omitempty" toml:"polarity,omitempty"`
	Current    float64 `yaml:"current,omitempty" toml:"current,omitempty"`
}

// BranchDoc 支路
type BranchDoc struct {
	Name       string   `yaml:"name" toml:"name"`
	Direction  string   `yaml:"direction" toml:"direction"`
	Conductors []string `yaml:"conductors" toml:"conductors"`
	Current    float64  `yaml:"current,omitempty" toml:"current,omitempty"`
}

// NodeDoc 节点
type NodeDoc struct {
	Name     string   `yaml:"name" toml:"name"`
	Incoming []string `yaml:"incoming" toml:"incoming"`
	Outgoing []string `yaml:"outgoing" toml:"outgoing"`
}

// CycleDoc 回路
type CycleDoc struct {
	Name       string   `yaml:"name" toml:"name"`
	Branches   []string `yaml:"branches" toml:"branches"`
	Directions []string `yaml:"directions" toml:"directions"`
}

// Topology 构建结果：网络及按文档顺序排列的导体
type Topology struct {
	Network    *network.Network
	Conductors []element.Conductor

	byName map[string]element.Conductor
}

// Conductor 按名称查找导体
func (t *Topology) Conductor(name string) (element.Conductor, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Build 由文档构建网络，并恢复文档中记录的支路与导体电流
func Build(doc *Document) (*Topology, error) {
	topo := &Topology{
		Network: network.New(),
		byName:  make(map[string]element.Conductor, len(doc.Conductors)),
	}
	for _, cd := range doc.Conductors {
		if _, ok := topo.byName[cd.Name]; ok {
			return nil, fmt.Errorf("导体 %q: %w", cd.Name, ErrDuplicate)
		}
		c, err := newConductor(cd)
		if err != nil {
			return nil, err
		}
		topo.byName[cd.Name] = c
		topo.Conductors = append(topo.Conductors, c)
	}

	net := topo.Network
	attached := make(map[string]bool, len(doc.Conductors))
	for _, bd := range doc.Branches {
		if _, ok := net.BranchByName(bd.Name); ok {
			return nil, fmt.Errorf("支路 %q: %w", bd.Name, ErrDuplicate)
		}
		dir, err := types.ParseDirection(bd.Direction)
		if err != nil {
			return nil, fmt.Errorf("支路 %q: %w", bd.Name, err)
		}
		conductors := make([]element.Conductor, 0, len(bd.Conductors))
		for _, name := range bd.Conductors {
			c, ok := topo.byName[name]
			if !ok {
				return nil, fmt.Errorf("支路 %q 导体 %q: %w", bd.Name, name, ErrUnknown)
			}
			conductors = append(conductors, c)
			attached[name] = true
		}
		b := net.AddBranch(bd.Name, dir, conductors...)
		if !dir.IsOpen() {
			b.SetCurrent(bd.Current)
		}
	}
	// 未接入支路的导体直接恢复记录的电流
	for i, cd := range doc.Conductors {
		if !attached[cd.Name] {
			topo.Conductors[i].SetCurrent(cd.Current)
		}
	}

	for _, nd := range doc.Nodes {
		in, err := branches(net, "节点", nd.Name, nd.Incoming)
		if err != nil {
			return nil, err
		}
		out, err := branches(net, "节点", nd.Name, nd.Outgoing)
		if err != nil {
			return nil, err
		}
		if _, err := net.AddNode(nd.Name, in, out); err != nil {
			return nil, fmt.Errorf("节点 %q: %w", nd.Name, err)
		}
	}

	for _, cd := range doc.Cycles {
		if len(cd.Branches) != len(cd.Directions) {
			return nil, fmt.Errorf("回路 %q (%d/%d): %w", cd.Name, len(cd.Branches), len(cd.Directions), ErrMismatch)
		}
		path, err := branches(net, "回路", cd.Name, cd.Branches)
		if err != nil {
			return nil, err
		}
		dirs := make([]types.Direction, len(cd.Directions))
		for i, s := range cd.Directions {
			if dirs[i], err = types.ParseDirection(s); err != nil {
				return nil, fmt.Errorf("回路 %q 第 %d 项: %w", cd.Name, i, err)
			}
		}
		if _, err := net.AddCycle(cd.Name, path, dirs); err != nil {
			return nil, fmt.Errorf("回路 %q: %w", cd.Name, err)
		}
	}
	return topo, nil
}

func newConductor(cd ConductorDoc) (element.Conductor, error) {
	if cd.Polarity == "" {
		if cd.Voltage != 0 {
			return nil, fmt.Errorf("导体 %q 有电压但缺少极性", cd.Name)
		}
		return element.NewWire(cd.Name, cd.Resistance)
	}
	polarity, err := types.ParseDirection(cd.Polarity)
	if err != nil {
		return nil, fmt.Errorf("导体 %q: %w", cd.Name, err)
	}
	return element.NewSource(cd.Name, cd.Resistance, cd.Voltage, polarity)
}

func branches(net *network.Network, kind, owner string, names []string) ([]*network.Branch, error) {
	out := make([]*network.Branch, 0, len(names))
	for _, name := range names {
		b, ok := net.BranchByName(name)
		if !ok {
			return nil, fmt.Errorf("%s %q 支路 %q: %w", kind, owner, name, ErrUnknown)
		}
		out = append(out, b)
	}
	return out, nil
}

// Snapshot 将网络当前状态（含电流与方向）写回文档
func Snapshot(topo *Topology) *Document {
	doc := &Document{}
	for _, c := range topo.Conductors {
		cd := ConductorDoc{Name: c.Name(), Resistance: c.Resistance(), Current: c.Current()}
		if s, ok := c.(*element.Source); ok {
			cd.Voltage = s.Voltage()
			cd.Polarity = s.Polarity().String()
		}
		doc.Conductors = append(doc.Conductors, cd)
	}
	net := topo.Network
	for _, b := range net.Branches() {
		bd := BranchDoc{Name: b.Name(), Direction: b.Direction().String(), Current: b.Current()}
		for _, c := range b.Conductors() {
			bd.Conductors = append(bd.Conductors, c.Name())
		}
		doc.Branches = append(doc.Branches, bd)
	}
	for _, n := range net.Nodes() {
		doc.Nodes = append(doc.Nodes, NodeDoc{
			Name:     n.Name(),
			Incoming: branchNames(n.Incoming()),
			Outgoing: branchNames(n.Outgoing()),
		})
	}
	for _, c := range net.Cycles() {
		cd := CycleDoc{Name: c.Name()}
		for _, d := range c.Path() {
			cd.Branches = append(cd.Branches, d.Branch.Name())
			cd.Directions = append(cd.Directions, d.Active.String())
		}
		doc.Cycles = append(doc.Cycles, cd)
	}
	return doc
}

func branchNames(list []*network.Branch) []string {
	names := make([]string, 0, len(list))
	for _, b := range list {
		names = append(names, b.Name())
	}
	return names
}
