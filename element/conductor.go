package element

import (
	"fmt"
	"math"

	"electric/utils"
)

// Conductor 导电元件接口
type Conductor interface {
	Name() string                                         // 元件名称
	Current() float64                                     // 当前电流
	SetCurrent(i float64)                                 // 写入电流（仅由支路扇出调用）
	Resistance() float64                                  // 电阻（欧姆）
	OnCurrent(fn utils.Callback[float64]) (cancel func()) // 注册电流变化回调
}

// ElementBase 导体基础数据
type ElementBase struct {
	name       string                   // 元件名称
	resistance float64                  // 电阻
	current    float64                  // 电流
	observers  utils.Observers[float64] // 电流变化回调
}

// Name 元件名称
func (base *ElementBase) Name() string { return base.name }

// Current 当前电流
func (base *ElementBase) Current() float64 { return base.current }

// Resistance 电阻
func (base *ElementBase) Resistance() float64 { return base.resistance }

// SetCurrent 写入电流，值变化时同步通知回调
func (base *ElementBase) SetCurrent(i float64) {
	old := base.current
	base.current = i
	if old != i {
		base.observers.Notify(old, i)
	}
}

// OnCurrent 注册电流变化回调
func (base *ElementBase) OnCurrent(fn utils.Callback[float64]) (cancel func()) {
	return base.observers.Register(fn)
}

// String 调试输出
func (base *ElementBase) String() string {
	return fmt.Sprintf("%s(R=%g I=%g)", base.name, base.resistance, base.current)
}

// checkResistance 电阻必须为非负有限值
func checkResistance(name string, r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 {
		return fmt.Errorf("元件 %q 电阻无效: %v", name, r)
	}
	return nil
}
