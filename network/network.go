package network

import (
	"errors"
	"fmt"

	"electric/element"
	"electric/types"
	"electric/utils"
)

// 拓扑编写错误
var (
	ErrCycleLength    = errors.New("cycle branch and direction lists differ in length")
	ErrEmptyCycle     = errors.New("cycle has no branches")
	ErrCycleDirection = errors.New("cycle traversal direction must be forward or backward")
	ErrForeignBranch  = errors.New("branch belongs to another network")
	ErrNodeOverlap    = errors.New("branch listed twice in node")
)

// Network 拓扑仓库：按句柄保存支路、节点与回路
// 仓库只引用导体，不拥有其生命周期.
type Network struct {
	branches []*Branch
	nodes    []*Node
	cycles   []*Cycle
	byName   map[string]*Branch
}

// New 创建空拓扑
func New() *Network {
	return &Network{byName: make(map[string]*Branch)}
}

// AddBranch 添加支路，句柄按添加顺序分配
func (net *Network) AddBranch(name string, direction types.Direction, conductors ...element.Conductor) *Branch {
	b := &Branch{
		id:         types.BranchID(len(net.branches)),
		name:       name,
		owner:      net,
		conductors: append([]element.Conductor(nil), conductors...),
		direction:  direction,
	}
	net.branches = append(net.branches, b)
	if _, ok := net.byName[name]; !ok && name != "" {
		net.byName[name] = b
	}
	return b
}

// Branch 通过句柄获取支路，句柄无效时返回 nil
func (net *Network) Branch(id types.BranchID) *Branch {
	if id < 0 || id >= len(net.branches) {
		return nil
	}
	return net.branches[id]
}

// BranchByName 通过名称获取支路
func (net *Network) BranchByName(name string) (*Branch, bool) {
	b, ok := net.byName[name]
	return b, ok
}

// Branches 所有支路
func (net *Network) Branches() []*Branch { return append([]*Branch(nil), net.branches...) }

// Nodes 所有节点
func (net *Network) Nodes() []*Node { return append([]*Node(nil), net.nodes...) }

// Cycles 所有回路
func (net *Network) Cycles() []*Cycle { return append([]*Cycle(nil), net.cycles...) }

// AddNode 添加节点，流入与流出集合必须互不相交
func (net *Network) AddNode(name string, incoming, outgoing []*Branch) (*Node, error) {
	seen := utils.NewBitmap(len(net.branches))
	for _, list := range [][]*Branch{incoming, outgoing} {
		for _, b := range list {
			if err := net.own(b); err != nil {
				return nil, fmt.Errorf("node %q: %w", name, err)
			}
			bit := utils.BitmapFlag(b.ID())
			if seen.Get(bit) {
				return nil, fmt.Errorf("node %q: %s: %w", name, b.Name(), ErrNodeOverlap)
			}
			seen.Set(bit, true)
		}
	}
	n := &Node{
		id:       types.NodeID(len(net.nodes)),
		name:     name,
		incoming: append([]*Branch(nil), incoming...),
		outgoing: append([]*Branch(nil), outgoing...),
	}
	net.nodes = append(net.nodes, n)
	return n, nil
}

// AddCycle 由等长的支路列表与方向列表组合成回路
func (net *Network) AddCycle(name string, branches []*Branch, directions []types.Direction) (*Cycle, error) {
	if len(branches) != len(directions) {
		return nil, fmt.Errorf("cycle %q: %d branches, %d directions: %w",
			name, len(branches), len(directions), ErrCycleLength)
	}
	if len(branches) == 0 {
		return nil, fmt.Errorf("cycle %q: %w", name, ErrEmptyCycle)
	}
	path := make([]DirectedBranch, len(branches))
	for i, b := range branches {
		if err := net.own(b); err != nil {
			return nil, fmt.Errorf("cycle %q: %w", name, err)
		}
		if directions[i].IsOpen() {
			return nil, fmt.Errorf("cycle %q: %s: %w", name, b.Name(), ErrCycleDirection)
		}
		path[i] = DirectedBranch{Branch: b, Active: directions[i]}
	}
	c := &Cycle{
		id:   types.CycleID(len(net.cycles)),
		name: name,
		path: path,
	}
	net.cycles = append(net.cycles, c)
	return c, nil
}

// own 检查支路属于本仓库
func (net *Network) own(b *Branch) error {
	if b == nil {
		return errors.New("nil branch")
	}
	if b.owner != net {
		return fmt.Errorf("%s: %w", b.Name(), ErrForeignBranch)
	}
	return nil
}
