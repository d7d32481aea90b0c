package electric

import (
	"fmt"
	"math"
	"sync"

	"electric/maths"
	"electric/network"
	"electric/types"
	"electric/utils"

	"gonum.org/v1/gonum/mat"
)

// Debug 调试接口，每次成功求解后调用
type Debug interface {
	IsDebug() bool
	Update(sys *System)
}

// RowKind 方程行来源
type RowKind uint8

// 方程行来源
const (
	CycleRow RowKind = iota // 电压定律
	NodeRow                 // 电流定律
)

// String 返回行来源的字符串表示
func (k RowKind) String() string {
	if k == NodeRow {
		return "node"
	}
	return "cycle"
}

// Row 方程行信息
type Row struct {
	Kind RowKind // 来源
	Name string  // 回路或节点名称
}

// System 本轮组装的线性方程组 A·x = B
type System struct {
	Branches []*network.Branch // 未知量，按发现顺序
	Rows     []Row             // 方程行，按选择顺序
	A        *mat.Dense        // 系数矩阵
	B        *mat.VecDense     // 右侧向量
	X        *mat.VecDense     // 求解结果（带符号）
	Skipped  []string          // 本轮因断路跳过的回路
}

// Circuit 电路求解器
// 求解器借用拓扑仓库中的回路与节点，不保存跨轮次的方程状态.
type Circuit struct {
	mu      sync.Mutex
	running bool // 正在求解
	pending bool // 求解期间又收到重算请求
	net     *network.Network
	tol     float64
	debug   Debug
}

// Option 求解器选项
type Option func(*Circuit)

// WithTolerance 设置 LU 主元阈值
func WithTolerance(tol float64) Option {
	return func(c *Circuit) {
		if tol > 0 {
			c.tol = tol
		}
	}
}

// WithDebug 设置调试记录
func WithDebug(d Debug) Option {
	return func(c *Circuit) { c.debug = d }
}

// NewCircuit 初始化
func NewCircuit(net *network.Network, opts ...Option) *Circuit {
	c := &Circuit{net: net, tol: types.PivotTolerance}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Network 拓扑仓库
func (c *Circuit) Network() *network.Network { return c.net }

// Recalculate 重新计算所有支路电流
// 回路全部断开时直接返回 nil 且不修改任何状态；失败时返回 *ConfigurationError 且不修改任何状态.
// 写回期间由回调触发的重算（例如用电器通电后拨动开关）不会嵌套执行，
// 而是登记下来，在本轮结束后再求解一轮；此时内层调用立即返回 nil.
func (c *Circuit) Recalculate() error {
	c.mu.Lock()
	if c.running {
		c.pending = true
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.running, c.pending = false, false
		c.mu.Unlock()
	}()

	for {
		if err := c.solve(); err != nil {
			return err
		}
		c.mu.Lock()
		again := c.pending
		c.pending = false
		c.mu.Unlock()
		if !again {
			return nil
		}
	}
}

// solve 执行一轮组装、求解与写回
func (c *Circuit) solve() error {
	sys, err := c.Assemble()
	if err != nil || sys == nil {
		return err
	}
	x, err := maths.Solve(sys.A, sys.B, c.tol)
	if err != nil {
		return &ConfigurationError{Op: "solve", Err: fmt.Errorf("%w: %w", ErrSingular, err)}
	}
	sys.X = x
	// 写回结果：负值反转方向并取绝对值
	for j, b := range sys.Branches {
		v := x.AtVec(j)
		if v < 0 {
			b.Reverse()
		}
		b.SetCurrent(math.Abs(v))
	}
	utils.Logger("circuit").Debug("circuit solved",
		"unknowns", len(sys.Branches), "rows", len(sys.Rows), "skipped", len(sys.Skipped))
	if c.debug != nil && c.debug.IsDebug() {
		c.debug.Update(sys)
	}
	return nil
}

// Assemble 组装本轮方程组，除把遇到的断开支路电流归零外不修改支路状态
// 回路全部断开时返回 (nil, nil).
func (c *Circuit) Assemble() (*System, error) {
	cycles, nodes := c.net.Cycles(), c.net.Nodes()
	if len(cycles) == 0 {
		return nil, &ConfigurationError{Op: "configure", Err: ErrNoCycles}
	}
	log := utils.Logger("circuit")

	// 回路方程，断路回路本轮跳过
	sys := &System{}
	cycleEqs := make([]*network.Equation, 0, len(cycles))
	cycleNames := make([]string, 0, len(cycles))
	for _, cy := range cycles {
		res := cy.Equation()
		if !res.Ok() {
			sys.Skipped = append(sys.Skipped, cy.Name())
			continue
		}
		cycleEqs = append(cycleEqs, res.Equation)
		cycleNames = append(cycleNames, cy.Name())
	}
	if len(cycleEqs) == 0 {
		log.Debug("all cycles open, nothing to solve", "cycles", len(cycles))
		return nil, nil
	}

	// 节点方程
	nodeEqs := make([]*network.Equation, len(nodes))
	for i, n := range nodes {
		nodeEqs[i] = n.Equation()
	}

	// 去重后的待求支路：先回路后节点
	column := make(map[types.BranchID]int)
	collect := func(eqs []*network.Equation) {
		for _, eq := range eqs {
			for _, id := range eq.Branches() {
				if _, ok := column[id]; ok {
					continue
				}
				b := c.net.Branch(id)
				if b == nil {
					continue
				}
				if b.Direction().IsOpen() {
					b.SetCurrent(types.OpenCurrent)
					continue
				}
				column[id] = len(sys.Branches)
				sys.Branches = append(sys.Branches, b)
			}
		}
	}
	collect(cycleEqs)
	collect(nodeEqs)

	n := len(sys.Branches)
	if n == 0 {
		return nil, nil
	}
	numCycles, numNodes := (n+1)/2, n/2
	if len(cycleEqs) < numCycles || len(nodeEqs) < numNodes {
		return nil, &ConfigurationError{Op: "assemble", Err: fmt.Errorf(
			"%w: %d unknowns need %d cycle and %d node equations, have %d and %d",
			ErrUnderdetermined, n, numCycles, numNodes, len(cycleEqs), len(nodeEqs))}
	}

	sys.A = mat.NewDense(n, n, nil)
	sys.B = mat.NewVecDense(n, nil)
	row := 0
	fill := func(eq *network.Equation) {
		for _, t := range eq.Terms() {
			if j, ok := column[t.Branch]; ok {
				sys.A.Set(row, j, t.Coefficient)
			}
		}
	}
	// 回路方程为电位变化之和: Σ coef·I + V = 0，电源项移到右侧
	for i := 0; i < numCycles; i++ {
		fill(cycleEqs[i])
		sys.B.SetVec(row, -cycleEqs[i].Voltage)
		sys.Rows = append(sys.Rows, Row{Kind: CycleRow, Name: cycleNames[i]})
		row++
	}
	for i := 0; i < numNodes; i++ {
		fill(nodeEqs[i])
		sys.Rows = append(sys.Rows, Row{Kind: NodeRow, Name: nodes[i].Name()})
		row++
	}
	return sys, nil
}
