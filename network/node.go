package network

import (
	"slices"

	"electric/types"
	"electric/utils"
)

// Node 节点：流入与流出两个互不相交的支路集合
type Node struct {
	id       types.NodeID
	name     string
	incoming []*Branch
	outgoing []*Branch
}

// ID 节点句柄
func (n *Node) ID() types.NodeID { return n.id }

// Name 节点名称
func (n *Node) Name() string { return n.name }

// Incoming 流入支路
func (n *Node) Incoming() []*Branch { return append([]*Branch(nil), n.incoming...) }

// Outgoing 流出支路
func (n *Node) Outgoing() []*Branch { return append([]*Branch(nil), n.outgoing...) }

// Equation 电流定律方程：流入 +1，流出 -1，断开支路不出现
func (n *Node) Equation() *Equation {
	eq := NewEquation()
	for _, b := range n.incoming {
		if !b.Direction().IsOpen() {
			eq.Set(b.ID(), 1)
		}
	}
	for _, b := range n.outgoing {
		if !b.Direction().IsOpen() {
			eq.Set(b.ID(), -1)
		}
	}
	return eq
}

// MoveToOtherSet 把支路移动到另一个集合
// 支路不属于该节点时只记录警告.
func (n *Node) MoveToOtherSet(b *Branch) {
	if i := slices.Index(n.incoming, b); i >= 0 {
		n.incoming = slices.Delete(n.incoming, i, i+1)
		n.outgoing = append(n.outgoing, b)
		return
	}
	if i := slices.Index(n.outgoing, b); i >= 0 {
		n.outgoing = slices.Delete(n.outgoing, i, i+1)
		n.incoming = append(n.incoming, b)
		return
	}
	name := "<nil>"
	if b != nil {
		name = b.Name()
	}
	utils.Logger("network").Warn("branch does not exist in node",
		"node", n.name, "branch", name)
}

// Contains 支路是否与节点相连
func (n *Node) Contains(b *Branch) bool {
	return slices.Contains(n.incoming, b) || slices.Contains(n.outgoing, b)
}
