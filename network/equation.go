package network

import (
	"fmt"
	"strings"

	"electric/types"
)

// Term 方程中的一项
type Term struct {
	Branch      types.BranchID // 支路句柄
	Coefficient float64        // 系数
}

// Equation 以支路句柄为键的有序系数表
// 键的顺序为首次写入顺序,重复写入只覆盖系数不改变位置.
type Equation struct {
	terms   []Term
	index   map[types.BranchID]int
	Voltage float64 // 右侧电压,节点方程恒为0
}

// NewEquation 创建空方程
func NewEquation() *Equation {
	return &Equation{index: make(map[types.BranchID]int)}
}

// Set 写入系数
func (eq *Equation) Set(id types.BranchID, coefficient float64) {
	if i, ok := eq.index[id]; ok {
		eq.terms[i].Coefficient = coefficient
		return
	}
	eq.index[id] = len(eq.terms)
	eq.terms = append(eq.terms, Term{Branch: id, Coefficient: coefficient})
}

// Coefficient 读取系数
func (eq *Equation) Coefficient(id types.BranchID) (float64, bool) {
	i, ok := eq.index[id]
	if !ok {
		return 0, false
	}
	return eq.terms[i].Coefficient, true
}

// Terms 按键顺序返回所有项
func (eq *Equation) Terms() []Term {
	return append([]Term(nil), eq.terms...)
}

// Branches 按键顺序返回支路句柄
func (eq *Equation) Branches() []types.BranchID {
	ids := make([]types.BranchID, len(eq.terms))
	for i, t := range eq.terms {
		ids[i] = t.Branch
	}
	return ids
}

// Len 项数
func (eq *Equation) Len() int { return len(eq.terms) }

// String 调试输出
func (eq *Equation) String() string {
	var sb strings.Builder
	for i, t := range eq.terms {
		if i > 0 {
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "%g*I%d", t.Coefficient, t.Branch)
	}
	fmt.Fprintf(&sb, " = %g", eq.Voltage)
	return sb.String()
}
