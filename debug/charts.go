package debug

import (
	"io"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"electric/utils"
)

// Charts 曲线绘制
type Charts struct {
	*Record
}

var legend = opts.Legend{
	Type:   "scroll",
	Orient: "vertical",
	Right:  "10",
	Top:    "20",
	Bottom: "20",
}

// Render 格式化
func (c *Charts) Render(w io.Writer) error {
	branches, nodes, passes := c.snapshot()

	// 拓扑：节点与支路
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "电路拓扑",
			Subtitle: "节点与支路连接图",
		}),
		charts.WithLegendOpts(legend),
	)
	graph.SetSeriesOptions(
		charts.WithEmphasisOpts(opts.Emphasis{
			Label: &opts.Label{
				Show:     opts.Bool(true),
				Color:    "black",
				Position: "left",
			},
		}),
		charts.WithLineStyleOpts(opts.LineStyle{Curveness: 0.3}),
	)
	graphNodes := make([]opts.GraphNode, 0, len(branches)+len(nodes))
	for _, b := range branches {
		graphNodes = append(graphNodes, opts.GraphNode{
			Name:     b,
			Category: 0,
			Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
		})
	}
	graphLinks := make([]opts.GraphLink, 0)
	for _, n := range nodes {
		graphNodes = append(graphNodes, opts.GraphNode{
			Name:     "node:" + n.Name,
			Category: 1,
			Tooltip:  &opts.Tooltip{Show: opts.Bool(true)},
		})
		for _, b := range n.Incoming {
			graphLinks = append(graphLinks, opts.GraphLink{Source: b, Target: "node:" + n.Name, Value: 1})
		}
		for _, b := range n.Outgoing {
			graphLinks = append(graphLinks, opts.GraphLink{Source: "node:" + n.Name, Target: b, Value: -1})
		}
	}
	graph.AddSeries("电路列表", graphNodes, graphLinks,
		charts.WithGraphChartOpts(opts.GraphChart{
			Categories: []*opts.GraphCategory{
				{Name: "支路", ItemStyle: &opts.ItemStyle{Color: "#c71979b7"}},
				{Name: "节点", ItemStyle: &opts.ItemStyle{Color: "#1987c7b7"}},
			},
			Roam:               opts.Bool(true),
			Force:              &opts.GraphForce{Repulsion: 80},
			EdgeLabel:          &opts.EdgeLabel{Show: opts.Bool(true)},
			FocusNodeAdjacency: opts.Bool(true),
		}))

	// 最近一轮的支路电流
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "支路电流",
			Subtitle: "最近一轮求解",
		}),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
	)
	bar.SetXAxis(branches)
	barData := make([]opts.BarData, len(branches))
	if len(passes) > 0 {
		last := currents(passes[len(passes)-1])
		for i, b := range branches {
			barData[i] = opts.BarData{Value: last[b]}
		}
	}
	bar.AddSeries("电流", barData)

	// 各轮电流曲线
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{
			Title:    "电流曲线",
			Subtitle: "支路电流随求解轮次变化",
		}),
		charts.WithLegendOpts(legend),
		charts.WithYAxisOpts(opts.YAxis{Scale: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(true),
	)
	seq := make([]int, len(passes))
	items := make([][]opts.LineData, len(branches))
	for i := range items {
		items[i] = make([]opts.LineData, len(passes))
	}
	for x, p := range passes {
		seq[x] = p.Seq
		cur := currents(p)
		for i, b := range branches {
			if v, ok := cur[b]; ok {
				items[i][x].Value = v
			} else {
				items[i][x].Value = "-"
			}
		}
	}
	line.SetXAxis(seq)
	for i, b := range branches {
		line.AddSeries(b, items[i])
	}

	// 构建界面
	page := components.NewPage()
	page.AddCharts(graph, bar, line)
	return page.Render(w)
}

// Handler 发布到网页面
func (c *Charts) Handler(w http.ResponseWriter, _ *http.Request) {
	if err := c.Render(w); err != nil {
		c.Error(err)
	}
}

func (c *Charts) Error(err error) { utils.Logger("debug").Error("render charts", "err", err) }
