package maths

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// 补充必要常量（浮点精度阈值）
const Epsilon = 1e-16

// Solve 一次性求解 Ax=b，A 与 b 不被修改
func Solve(a *mat.Dense, b *mat.VecDense, tol float64) (*mat.VecDense, error) {
	n, _ := a.Dims()
	lu, err := NewLU(n, tol)
	if err != nil {
		return nil, err
	}
	if err := lu.Decompose(a); err != nil {
		return nil, err
	}
	x := mat.NewVecDense(n, nil)
	if err := lu.SolveReuse(b, x); err != nil {
		return nil, err
	}
	return x, nil
}

// Residual 返回 |Ax-b| 的最大分量
func Residual(a mat.Matrix, x, b mat.Vector) float64 {
	r := mat.NewVecDense(b.Len(), nil)
	r.MulVec(a, x)
	r.SubVec(r, b)
	maxAbs := 0.0
	for i := 0; i < r.Len(); i++ {
		maxAbs = math.Max(maxAbs, math.Abs(r.AtVec(i)))
	}
	return maxAbs
}
