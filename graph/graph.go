// Package graph 分析支路、节点与回路组成的拓扑。
package graph

import (
	"fmt"

	"electric/network"
	"electric/types"
	"electric/utils"
)

// Graph 拓扑分析结果
type Graph struct {
	Branches     int      // 支路数量
	Open         int      // 断开支路数量
	Cycles       int      // 回路数量
	Nodes        int      // 节点数量
	Components   int      // 经节点或回路相连的支路分组数量
	Uncycled     []string // 不在任何回路中的支路
	Unreferenced []string // 不在任何回路或节点中的支路
}

// Analyze 分析拓扑
func Analyze(net *network.Network) *Graph {
	branches := net.Branches()
	g := &Graph{
		Branches: len(branches),
		Cycles:   len(net.Cycles()),
		Nodes:    len(net.Nodes()),
	}
	inCycle := utils.NewBitmap(len(branches))
	inNode := utils.NewBitmap(len(branches))
	parent := make([]types.BranchID, len(branches))
	for i := range parent {
		parent[i] = types.BranchID(i)
	}

	// 连接同一回路或节点中的支路
	link := func(list []*network.Branch, mark utils.Bitmap) {
		for i, b := range list {
			mark.Set(utils.BitmapFlag(b.ID()), true)
			if i > 0 {
				union(parent, list[0].ID(), b.ID())
			}
		}
	}
	for _, c := range net.Cycles() {
		path := c.Path()
		list := make([]*network.Branch, len(path))
		for i, d := range path {
			list[i] = d.Branch
		}
		link(list, inCycle)
	}
	for _, n := range net.Nodes() {
		link(append(n.Incoming(), n.Outgoing()...), inNode)
	}

	roots := make(map[types.BranchID]bool)
	for _, b := range branches {
		id := b.ID()
		bit := utils.BitmapFlag(id)
		if b.Direction().IsOpen() {
			g.Open++
		}
		if !inCycle.Get(bit) {
			g.Uncycled = append(g.Uncycled, b.Name())
			if !inNode.Get(bit) {
				g.Unreferenced = append(g.Unreferenced, b.Name())
				continue
			}
		}
		roots[find(parent, id)] = true
	}
	g.Components = len(roots)
	return g
}

// Warnings 拓扑中可能导致求解失败或结果缺失的问题
func (g *Graph) Warnings() []string {
	var out []string
	if g.Cycles == 0 {
		out = append(out, "no cycles: nothing can be solved")
	}
	for _, name := range g.Unreferenced {
		out = append(out, fmt.Sprintf("branch %q is in no cycle or node and is never solved", name))
	}
	if g.Components > 1 {
		out = append(out, fmt.Sprintf("topology splits into %d disconnected groups", g.Components))
	}
	return out
}

func find(parent []types.BranchID, id types.BranchID) types.BranchID {
	for parent[id] != id {
		parent[id] = parent[parent[id]]
		id = parent[id]
	}
	return id
}

func union(parent []types.BranchID, a, b types.BranchID) {
	ra, rb := find(parent, a), find(parent, b)
	if ra != rb {
		parent[rb] = ra
	}
}
