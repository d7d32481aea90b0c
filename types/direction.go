package types

import (
	"fmt"
	"strings"
)

// Direction 支路方向
type Direction uint8

// 方向常量定义
const (
	Forward  Direction = iota // 正向
	Backward                  // 反向
	Open                      // 断开
)

var directionString = map[Direction]string{
	Forward:  "forward",
	Backward: "backward",
	Open:     "open",
}

// String 返回方向的字符串表示
func (d Direction) String() string {
	if s, ok := directionString[d]; ok {
		return s
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Reverse 反转方向, 断开保持断开
func (d Direction) Reverse() Direction {
	switch d {
	case Forward:
		return Backward
	case Backward:
		return Forward
	default:
		return Open
	}
}

// IsOpen 是否断开
func (d Direction) IsOpen() bool { return d == Open }

// ParseDirection 通过名称获取方向
func ParseDirection(name string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "forward", "f", "+":
		return Forward, nil
	case "backward", "b", "-":
		return Backward, nil
	case "open", "o":
		return Open, nil
	}
	return Open, fmt.Errorf("未知方向: %q", name)
}

// MarshalText 文本编码
func (d Direction) MarshalText() ([]byte, error) {
	if _, ok := directionString[d]; !ok {
		return nil, fmt.Errorf("未知方向: %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText 文本解码
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
