package element

// Wire 普通导体（导线、电阻、用电器）
type Wire struct {
	ElementBase
}

// NewWire 创建导体
func NewWire(name string, resistance float64) (*Wire, error) {
	if err := checkResistance(name, resistance); err != nil {
		return nil, err
	}
	return &Wire{ElementBase: ElementBase{name: name, resistance: resistance}}, nil
}
