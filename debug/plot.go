package debug

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoPasses 没有可绘制的记录
var ErrNoPasses = errors.New("没有求解记录")

// 默认图片尺寸
const (
	PlotWidth  = 8 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

// Plot 将各轮支路电流绘制为 PNG 折线图
func (r *Record) Plot(w io.Writer, width, height vg.Length) error {
	branches, _, passes := r.snapshot()
	if len(passes) == 0 {
		return ErrNoPasses
	}

	p := plot.New()
	p.Title.Text = "Branch currents"
	p.X.Label.Text = "pass"
	p.Y.Label.Text = "current (A)"
	p.Add(plotter.NewGrid())

	for i, b := range branches {
		xys := make(plotter.XYs, 0, len(passes))
		for _, pass := range passes {
			if v, ok := currents(pass)[b]; ok {
				xys = append(xys, plotter.XY{X: float64(pass.Seq), Y: v})
			}
		}
		if len(xys) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("支路 %q: %w", b, err)
		}
		line.Color = plotutil.Color(i)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(b, line, points)
	}

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
