package device

import (
	"electric/network"
	"electric/types"
)

// Recalculator 拓扑变化后重新求解
type Recalculator interface {
	Recalculate() error
}

// Switch 开关：断开时支路方向置为断开，闭合时恢复为正向，随后触发重算
type Switch struct {
	Branch  *network.Branch
	Circuit Recalculator
}

// NewSwitch 创建开关
func NewSwitch(b *network.Branch, c Recalculator) *Switch {
	return &Switch{Branch: b, Circuit: c}
}

// Closed 开关是否闭合
func (s *Switch) Closed() bool { return !s.Branch.Direction().IsOpen() }

// Flip 设置开关状态并重算
func (s *Switch) Flip(closed bool) error {
	if closed {
		s.Branch.SetDirection(types.Forward)
	} else {
		s.Branch.SetDirection(types.Open)
	}
	if s.Circuit == nil {
		return nil
	}
	return s.Circuit.Recalculate()
}

// Toggle 切换开关状态并重算
func (s *Switch) Toggle() error { return s.Flip(!s.Closed()) }
