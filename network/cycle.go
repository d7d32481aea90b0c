package network

import (
	"electric/element"
	"electric/types"
	"electric/utils"
)

// Outcome 回路方程结果标记
type Outcome uint8

// 回路方程结果
const (
	EquationReady Outcome = iota // 方程可用
	OpenPath                     // 回路含断开支路,本轮跳过
)

// String 返回结果标记的字符串表示
func (o Outcome) String() string {
	if o == OpenPath {
		return "open-path"
	}
	return "equation"
}

// CycleEquation 回路方程求值结果
type CycleEquation struct {
	Outcome  Outcome        // 结果标记
	Equation *Equation      // Outcome 为 EquationReady 时有效
	Open     types.BranchID // Outcome 为 OpenPath 时的断开支路
}

// Ok 方程是否可用
func (r CycleEquation) Ok() bool { return r.Outcome == EquationReady }

// Cycle 回路：有序的 (支路, 遍历方向) 序列
type Cycle struct {
	id   types.CycleID
	name string
	path []DirectedBranch
}

// ID 回路句柄
func (c *Cycle) ID() types.CycleID { return c.id }

// Name 回路名称
func (c *Cycle) Name() string { return c.name }

// Path 遍历序列
func (c *Cycle) Path() []DirectedBranch { return append([]DirectedBranch(nil), c.path...) }

// Equation 电压定律方程
//
// 每条支路只决定一次符号: 遍历方向与支路当前方向一致时电阻相减,否则相加,
// 同一符号作用于该支路上所有非电源导体. 电源电压单独处理: 极性与遍历方向
// 一致时加到电压总和,否则减去,电源不参与电阻累加.
func (c *Cycle) Equation() CycleEquation {
	eq := NewEquation()
	volt := 0.0
	for _, p := range c.path {
		if p.Branch.Direction().IsOpen() {
			utils.Logger("network").Debug("cycle has open branch",
				"cycle", c.name, "branch", p.Branch.Name())
			return CycleEquation{Outcome: OpenPath, Open: p.Branch.ID()}
		}
		sign := 1.0
		if p.MatchesStoredDirection() {
			sign = -1.0
		}
		resistance := 0.0
		for _, cond := range p.Branch.conductors {
			if src, ok := cond.(*element.Source); ok {
				if src.Polarity() == p.Active {
					volt += src.Voltage()
				} else {
					volt -= src.Voltage()
				}
				continue
			}
			resistance += sign * cond.Resistance()
		}
		eq.Set(p.Branch.ID(), resistance)
	}
	eq.Voltage = volt
	return CycleEquation{Outcome: EquationReady, Equation: eq, Open: types.InvalidID}
}
