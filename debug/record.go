// Package debug 记录每轮求解结果，并输出 JSON、网页图表与 PNG 曲线。
package debug

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"electric"
	"electric/maths"
	"electric/network"
	"electric/types"
)

// BranchState 支路在某轮求解后的状态
type BranchState struct {
	Name      string  `json:"name"`
	Current   float64 `json:"current"`
	Direction string  `json:"direction"`
}

// Pass 一轮成功求解
type Pass struct {
	Seq      int           `json:"seq"`
	Time     time.Time     `json:"time"`
	Branches []BranchState `json:"branches"`
	Rows     []string      `json:"rows"`
	Matrix   [][]float64   `json:"matrix"`
	RHS      []float64     `json:"rhs"`
	Residual float64       `json:"residual"`
	Skipped  []string      `json:"skipped,omitempty"`
}

// NodeLinks 节点连接信息
type NodeLinks struct {
	Name     string   `json:"name"`
	Incoming []string `json:"incoming"`
	Outgoing []string `json:"outgoing"`
}

// Record 记录历史状态
type Record struct {
	Branches []string    `json:"branches"` // 拓扑中的全部支路
	Nodes    []NodeLinks `json:"nodes"`    // 连接信息
	Passes   []Pass      `json:"passes"`

	// Sink 每记录一轮后调用，可为空
	Sink func(Pass) `json:"-"`

	mu       sync.Mutex
	disabled bool
	now      func() time.Time
}

// NewRecord 创建并初始化拓扑信息
func NewRecord(net *network.Network) *Record {
	r := &Record{now: time.Now}
	r.Init(net)
	return r
}

// Init 初始化
func (r *Record) Init(net *network.Network) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Branches = r.Branches[:0]
	r.Nodes = r.Nodes[:0]
	for _, b := range net.Branches() {
		r.Branches = append(r.Branches, b.Name())
	}
	for _, n := range net.Nodes() {
		r.Nodes = append(r.Nodes, NodeLinks{
			Name:     n.Name(),
			Incoming: names(n.Incoming()),
			Outgoing: names(n.Outgoing()),
		})
	}
}

func (r *Record) IsDebug() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.disabled
}

func (r *Record) SetDebug(is bool) {
	r.mu.Lock()
	r.disabled = !is
	r.mu.Unlock()
}

// Update 记录数据
func (r *Record) Update(sys *electric.System) {
	r.mu.Lock()
	pass := Pass{
		Seq:     len(r.Passes) + 1,
		Time:    r.clock(),
		Skipped: append([]string(nil), sys.Skipped...),
	}
	for _, b := range sys.Branches {
		pass.Branches = append(pass.Branches, BranchState{
			Name:      b.Name(),
			Current:   b.Current(),
			Direction: b.Direction().String(),
		})
	}
	for _, row := range sys.Rows {
		pass.Rows = append(pass.Rows, row.Kind.String()+":"+row.Name)
	}
	n, _ := sys.A.Dims()
	for i := 0; i < n; i++ {
		pass.Matrix = append(pass.Matrix, append([]float64(nil), sys.A.RawRowView(i)...))
		pass.RHS = append(pass.RHS, sys.B.AtVec(i))
	}
	if sys.X != nil {
		pass.Residual = maths.Residual(sys.A, sys.X, sys.B)
	}
	r.Passes = append(r.Passes, pass)
	sink := r.Sink
	r.mu.Unlock()

	if sink != nil {
		sink(pass)
	}
}

// Last 最近一轮记录
func (r *Record) Last() (Pass, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Passes) == 0 {
		return Pass{}, false
	}
	return r.Passes[len(r.Passes)-1], true
}

// Render 格式和输出内容
func (r *Record) Render(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// snapshot 复制当前记录用于绘图
func (r *Record) snapshot() (branches []string, nodes []NodeLinks, passes []Pass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(branches, r.Branches...), append(nodes, r.Nodes...), append(passes, r.Passes...)
}

func (r *Record) clock() time.Time {
	if r.now == nil {
		return time.Now()
	}
	return r.now()
}

// currents 按支路名索引的带符号电流，方向为 backward 时取负
func currents(p Pass) map[string]float64 {
	backward := types.Backward.String()
	out := make(map[string]float64, len(p.Branches))
	for _, b := range p.Branches {
		v := b.Current
		if b.Direction == backward {
			v = -v
		}
		out[b.Name] = v
	}
	return out
}

func names(list []*network.Branch) []string {
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.Name())
	}
	return out
}

var _ electric.Debug = (*Record)(nil)
