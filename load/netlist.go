package load

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"electric/utils"
)

// 网表行类型
const (
	lineWire   = "R"
	lineSource = "V"
	lineBranch = "B"
	lineNode   = "N"
	lineCycle  = "L"
)

// currentKey 导出时附带的电流字段前缀
const currentKey = "i="

// parseNetlist 逐行解析网表
func parseNetlist(r io.Reader) (*Document, error) {
	doc := &Document{}
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()

		// 忽略注释、指令和空行。
		if i := strings.IndexAny(line, "#*"); i != -1 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, ".") {
			continue
		}

		fields := utils.Fields(line)
		if err := parseLine(doc, fields); err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取网表时出错: %w", err)
	}
	return doc, nil
}

func parseLine(doc *Document, fields utils.NetList) error {
	kind := strings.ToUpper(fields[0])
	if len(fields) < 2 {
		return fmt.Errorf("%s 缺少名称", kind)
	}
	name := fields[1]
	fields, current, err := splitCurrent(fields)
	if err != nil {
		return err
	}
	switch kind {
	case lineWire:
		ohms, err := fields.Float64(2)
		if err != nil {
			return fmt.Errorf("导体 %q 电阻: %w", name, err)
		}
		doc.Conductors = append(doc.Conductors, ConductorDoc{Name: name, Resistance: ohms, Current: current})
	case lineSource:
		volts, err := fields.Float64(2)
		if err != nil {
			return fmt.Errorf("电源 %q 电压: %w", name, err)
		}
		polarity := fields.ParseString(3, "")
		if polarity == "" {
			return fmt.Errorf("电源 %q 缺少极性", name)
		}
		// 内阻可省略，省略时为0
		ohms := 0.0
		if fields.ParseString(4, "") != "" {
			if ohms, err = fields.Float64(4); err != nil {
				return fmt.Errorf("电源 %q 内阻: %w", name, err)
			}
		}
		doc.Conductors = append(doc.Conductors, ConductorDoc{
			Name:       name,
			Resistance: ohms,
			Voltage:    volts,
			Polarity:   polarity,
			Current:    current,
		})
	case lineBranch:
		if len(fields) < 3 {
			return fmt.Errorf("支路 %q 缺少方向", name)
		}
		doc.Branches = append(doc.Branches, BranchDoc{
			Name:       name,
			Direction:  fields[2],
			Conductors: append([]string(nil), fields[3:]...),
			Current:    current,
		})
	case lineNode:
		nd := NodeDoc{Name: name}
		for _, f := range fields[2:] {
			switch {
			case len(f) > 1 && f[0] == '+':
				nd.Incoming = append(nd.Incoming, f[1:])
			case len(f) > 1 && f[0] == '-':
				nd.Outgoing = append(nd.Outgoing, f[1:])
			default:
				return fmt.Errorf("节点 %q 字段 %q 需以 + 或 - 开头", name, f)
			}
		}
		doc.Nodes = append(doc.Nodes, nd)
	case lineCycle:
		cd := CycleDoc{Name: name}
		for _, f := range fields[2:] {
			branch, dir, ok := utils.SplitPair(f)
			if !ok {
				return fmt.Errorf("回路 %q 字段 %q 应为 支路:方向", name, f)
			}
			cd.Branches = append(cd.Branches, branch)
			cd.Directions = append(cd.Directions, dir)
		}
		doc.Cycles = append(doc.Cycles, cd)
	default:
		return fmt.Errorf("未知的行类型 '%s'", fields[0])
	}
	return nil
}

// splitCurrent 取出行尾的 i=<电流> 字段
func splitCurrent(fields utils.NetList) (utils.NetList, float64, error) {
	rest := fields[:0:0]
	current := 0.0
	for _, f := range fields {
		if !strings.HasPrefix(f, currentKey) {
			rest = append(rest, f)
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimPrefix(f, currentKey), 64)
		if err != nil {
			return nil, 0, fmt.Errorf("电流字段 %q: %w", f, err)
		}
		current = v
	}
	return rest, current, nil
}

// writeNetlist 写出网表
func writeNetlist(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	write := func(values ...any) {
		fmt.Fprintln(bw, utils.FromAnySlice(values).String())
	}
	for _, c := range doc.Conductors {
		if c.Polarity == "" {
			write(lineWire, c.Name, c.Resistance, currentField(c.Current))
			continue
		}
		write(lineSource, c.Name, c.Voltage, c.Polarity, c.Resistance, currentField(c.Current))
	}
	for _, b := range doc.Branches {
		values := []any{lineBranch, b.Name, b.Direction}
		for _, c := range b.Conductors {
			values = append(values, c)
		}
		write(append(values, currentField(b.Current))...)
	}
	for _, n := range doc.Nodes {
		values := []any{lineNode, n.Name}
		for _, b := range n.Incoming {
			values = append(values, "+"+b)
		}
		for _, b := range n.Outgoing {
			values = append(values, "-"+b)
		}
		write(values...)
	}
	for _, c := range doc.Cycles {
		values := []any{lineCycle, c.Name}
		for i, b := range c.Branches {
			values = append(values, b+":"+c.Directions[i])
		}
		write(values...)
	}
	return bw.Flush()
}

func currentField(v float64) string {
	return currentKey + strconv.FormatFloat(v, 'g', -1, 64)
}
