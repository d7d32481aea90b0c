package load

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format 拓扑文件格式
type Format string

const (
	YAML    Format = "yaml"
	TOML    Format = "toml"
	Netlist Format = "net"
)

// FormatFromPath 按扩展名判断格式
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	case ".net", ".cir":
		return Netlist, nil
	}
	return "", fmt.Errorf("无法识别的拓扑文件格式: %s", path)
}

// Decode 解析拓扑文档
func Decode(r io.Reader, format Format) (*Document, error) {
	doc := &Document{}
	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("解析 YAML: %w", err)
		}
	case TOML:
		if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(doc); err != nil {
			return nil, fmt.Errorf("解析 TOML: %w", err)
		}
	case Netlist:
		return parseNetlist(r)
	default:
		return nil, fmt.Errorf("未知格式 %q", format)
	}
	return doc, nil
}

// Encode 写出拓扑文档
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case TOML:
		return toml.NewEncoder(w).Encode(doc)
	case Netlist:
		return writeNetlist(w, doc)
	}
	return fmt.Errorf("未知格式 %q", format)
}

// Read 解析并构建拓扑
func Read(r io.Reader, format Format) (*Topology, error) {
	doc, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// LoadFile 从文件加载拓扑，格式由扩展名决定
func LoadFile(path string) (*Topology, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开文件 %s: %w", path, err)
	}
	defer file.Close()
	topo, err := Read(file, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return topo, nil
}

// Export 写出网络当前状态，包括已求解的电流与方向
func Export(w io.Writer, topo *Topology, format Format) error {
	return Encode(w, Snapshot(topo), format)
}

// ExportFile 导出到文件，格式由扩展名决定
func ExportFile(path string, topo *Topology) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Export(file, topo, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
