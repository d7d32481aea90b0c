package maths

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular 矩阵奇异
var ErrSingular = errors.New("matrix is singular or nearly singular")

// LU 稠密矩阵LU分解器（A=PLU，带部分主元）
//
//	P - 置换向量
//	L - 单位下三角矩阵（对角线为1）
//	U - 上三角矩阵
type LU struct {
	n        int           // 矩阵维度（方阵n×n）
	tol      float64       // 主元阈值
	L        *mat.Dense    // 下三角矩阵L（严格下三角存储消元因子）
	U        *mat.Dense    // 上三角矩阵U
	Y        *mat.VecDense // 中间变量：存储前向替换结果Ly=Pb
	P        []int         // 置换向量：P[i] = 分解后第i行对应的原始矩阵行索引
	pinverse []int         // 逆置换向量
}

// NewLU 创建稠密矩阵LU分解器
// 参数:
//
//	n   - 矩阵维度（必须为正整数）
//	tol - 主元绝对值下限，小于等于0时使用 Epsilon
func NewLU(n int, tol float64) (*LU, error) {
	if n < 1 {
		return nil, errors.New("lu dimension must be positive")
	}
	if tol <= 0 {
		tol = Epsilon
	}
	return &LU{
		n:        n,
		tol:      tol,
		L:        mat.NewDense(n, n, nil),
		U:        mat.NewDense(n, n, nil),
		Y:        mat.NewVecDense(n, nil),
		P:        make([]int, n),
		pinverse: make([]int, n),
	}, nil
}

// Dim 获取矩阵维度
func (lu *LU) Dim() int { return lu.n }

// init 拷贝A到U，初始化置换向量和L矩阵对角线
func (lu *LU) init(a mat.Matrix) {
	lu.L.Zero()
	lu.U.Copy(a)
	for i := 0; i < lu.n; i++ {
		lu.P[i] = i
		lu.pinverse[i] = i
		lu.L.Set(i, i, 1.0)
	}
}

// updatePermutation 交换置换向量并同步逆置换
func (lu *LU) updatePermutation(k, maxRow int) {
	lu.P[k], lu.P[maxRow] = lu.P[maxRow], lu.P[k]
	lu.pinverse[lu.P[k]] = k
	lu.pinverse[lu.P[maxRow]] = maxRow
}

// Decompose 执行LU分解（高斯消元+部分主元）
//
// 算法步骤:
//  1. 初始化：拷贝A到U，初始化P、pinverse和L
//  2. 对每一列k:
//     a. 部分主元选择：在U的当前列k中找[k, n-1]行的最大值
//     b. 行交换：交换U的行，交换L的前k-1列，更新置换向量
//     c. 高斯消元：计算消元因子存入L，更新U矩阵
func (lu *LU) Decompose(a mat.Matrix) error {
	r, c := a.Dims()
	if r != c {
		return errors.New("lu decompose: input must be square matrix")
	}
	if r != lu.n {
		return fmt.Errorf("lu decompose: matrix dimension mismatch %d != %d", r, lu.n)
	}
	lu.init(a)
	for k := 0; k < lu.n; k++ {
		// 部分主元选择
		maxRow := k
		maxAbsVal := math.Abs(lu.U.At(k, k))
		for i := k + 1; i < lu.n; i++ {
			if v := math.Abs(lu.U.At(i, k)); v > maxAbsVal {
				maxAbsVal = v
				maxRow = i
			}
		}
		if maxAbsVal <= lu.tol || math.IsNaN(maxAbsVal) {
			return fmt.Errorf("lu decompose: column %d: %w", k, ErrSingular)
		}
		// 行交换
		if maxRow != k {
			swapRows(lu.U, k, maxRow)
			for j := 0; j < k; j++ {
				v1, v2 := lu.L.At(k, j), lu.L.At(maxRow, j)
				lu.L.Set(k, j, v2)
				lu.L.Set(maxRow, j, v1)
			}
			lu.updatePermutation(k, maxRow)
		}
		// 高斯消元
		pivot := lu.U.At(k, k)
		for i := k + 1; i < lu.n; i++ {
			factor := lu.U.At(i, k) / pivot
			lu.L.Set(i, k, factor)
			lu.U.Set(i, k, 0.0)
			for j := k + 1; j < lu.n; j++ {
				lu.U.Set(i, j, lu.U.At(i, j)-factor*lu.U.At(k, j))
			}
		}
	}
	return nil
}

// SolveReuse 利用分解结果求解Ax=b，结果写入x
//
//  1. 前向替换：求解Ly = Pb
//  2. 后向替换：求解Ux = y
func (lu *LU) SolveReuse(b, x *mat.VecDense) error {
	if b.Len() != lu.n || x.Len() != lu.n {
		return errors.New("lu solve: vector dimension mismatch")
	}
	lu.Y.Zero()
	for i := 0; i < lu.n; i++ {
		sum := b.AtVec(lu.P[i])
		for j := 0; j < i; j++ {
			sum -= lu.L.At(i, j) * lu.Y.AtVec(j)
		}
		lu.Y.SetVec(i, sum)
	}
	x.Zero()
	for i := lu.n - 1; i >= 0; i-- {
		sum := lu.Y.AtVec(i)
		for j := i + 1; j < lu.n; j++ {
			sum -= lu.U.At(i, j) * x.AtVec(j)
		}
		diag := lu.U.At(i, i)
		if math.Abs(diag) <= lu.tol {
			return fmt.Errorf("lu solve: zero diagonal at %d: %w", i, ErrSingular)
		}
		x.SetVec(i, sum/diag)
	}
	for i := 0; i < lu.n; i++ {
		if v := x.AtVec(i); math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("lu solve: non-finite result at %d: %w", i, ErrSingular)
		}
	}
	return nil
}

// swapRows 交换矩阵两行
func swapRows(m *mat.Dense, r1, r2 int) {
	_, c := m.Dims()
	for j := 0; j < c; j++ {
		v1, v2 := m.At(r1, j), m.At(r2, j)
		m.Set(r1, j, v2)
		m.Set(r2, j, v1)
	}
}
