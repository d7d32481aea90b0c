package device

import (
	"electric/element"
	"electric/utils"
)

// Appliance 依赖电流阈值工作的用电器
// 电流大于 Threshold 时通电；Overload 大于0时电流超过 Overload 视为过载不工作.
type Appliance struct {
	Conductor element.Conductor // 被监视的导体
	Threshold float64           // 最小工作电流（不含）
	Overload  float64           // 过载电流，0 表示无上限

	on      bool
	cancel  func()
	changes utils.Observers[bool]
}

// NewAppliance 创建用电器并订阅导体电流变化
func NewAppliance(c element.Conductor, threshold, overload float64) *Appliance {
	a := &Appliance{Conductor: c, Threshold: threshold, Overload: overload}
	a.on = a.evaluate(c.Current())
	a.cancel = c.OnCurrent(func(_, now float64) { a.update(now) })
	return a
}

// Powered 当前是否通电
func (a *Appliance) Powered() bool { return a.on }

// OnChange 注册通断变化回调
func (a *Appliance) OnChange(fn utils.Callback[bool]) (cancel func()) {
	return a.changes.Register(fn)
}

// Close 取消订阅
func (a *Appliance) Close() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// evaluate 判断电流是否处于工作区间
func (a *Appliance) evaluate(current float64) bool {
	if current <= a.Threshold {
		return false
	}
	if a.Overload > 0 && current > a.Overload {
		return false
	}
	return true
}

func (a *Appliance) update(current float64) {
	on := a.evaluate(current)
	if on == a.on {
		return
	}
	old := a.on
	a.on = on
	utils.Logger("device").Debug("device power changed",
		"conductor", a.Conductor.Name(), "powered", on, "current", current)
	a.changes.Notify(old, on)
}
