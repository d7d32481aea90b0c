package element

import (
	"fmt"
	"math"

	"electric/types"
)

// Source 电源，电压与极性创建后不可变
type Source struct {
	ElementBase
	voltage  float64         // 电压（带符号）
	polarity types.Direction // 极性：从负极到正极的方向
}

// NewSource 创建电源，极性只能是正向或反向
func NewSource(name string, resistance, voltage float64, polarity types.Direction) (*Source, error) {
	if err := checkResistance(name, resistance); err != nil {
		return nil, err
	}
	if math.IsNaN(voltage) || math.IsInf(voltage, 0) {
		return nil, fmt.Errorf("电源 %q 电压无效: %v", name, voltage)
	}
	if polarity.IsOpen() {
		return nil, fmt.Errorf("电源 %q 极性不能为 %s", name, polarity)
	}
	return &Source{
		ElementBase: ElementBase{name: name, resistance: resistance},
		voltage:     voltage,
		polarity:    polarity,
	}, nil
}

// Voltage 电压
func (s *Source) Voltage() float64 { return s.voltage }

// Polarity 极性
func (s *Source) Polarity() types.Direction { return s.polarity }

// String 调试输出
func (s *Source) String() string {
	return fmt.Sprintf("%s(V=%g %s I=%g)", s.name, s.voltage, s.polarity, s.current)
}
