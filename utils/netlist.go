package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// NetList 网表行字段
type NetList []string

// FromAnySlice 将 []any 转换为 NetList 类型
// any 只能是基础类型，不考虑结构体的解析
func FromAnySlice(slice []any) NetList {
	if slice == nil {
		return NetList{}
	}
	result := make(NetList, len(slice))
	for i, v := range slice {
		result[i] = anyToString(v)
	}
	return result
}

// anyToString 将任意基础类型转换为字符串
func anyToString(v any) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}

// Fields 按空白切分一行
func Fields(line string) NetList { return NetList(strings.Fields(line)) }

// String 以空格连接字段
func (value NetList) String() string { return strings.Join(value, " ") }

// Float64 严格解析浮点数
func (value NetList) Float64(i int) (float64, error) {
	if i >= len(value) {
		return 0, fmt.Errorf("missing field %d", i)
	}
	v, err := strconv.ParseFloat(value[i], 64)
	if err != nil {
		return 0, fmt.Errorf("field %d: %w", i, err)
	}
	return v, nil
}

// ParseString 安全获取字符串
func (value NetList) ParseString(i int, defaultValue string) string {
	if i < len(value) {
		return value[i]
	}
	return defaultValue
}

// SplitPair 拆分 "名称:值" 字段
func SplitPair(field string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(field, ":")
	if !ok || name == "" {
		return field, "", false
	}
	return name, value, true
}
