package network

import (
	"fmt"

	"electric/element"
	"electric/types"
	"electric/utils"
)

// Branch 支路：共享同一电流的有序导体序列
type Branch struct {
	id         types.BranchID
	name       string
	owner      *Network
	conductors []element.Conductor
	direction  types.Direction
	current    float64
	observers  utils.Observers[types.Direction]
}

// ID 支路句柄
func (b *Branch) ID() types.BranchID { return b.id }

// Name 支路名称
func (b *Branch) Name() string { return b.name }

// Conductors 支路上的导体（只读视图）
func (b *Branch) Conductors() []element.Conductor {
	return append([]element.Conductor(nil), b.conductors...)
}

// Direction 当前方向
func (b *Branch) Direction() types.Direction { return b.direction }

// Current 当前电流
func (b *Branch) Current() float64 { return b.current }

// SetDirection 设置方向，断开时电流立即归零
func (b *Branch) SetDirection(d types.Direction) {
	old := b.direction
	b.direction = d
	if d.IsOpen() {
		b.SetCurrent(types.OpenCurrent)
	}
	if old != d {
		b.observers.Notify(old, d)
	}
}

// Reverse 正反向互换，断开保持断开
func (b *Branch) Reverse() {
	b.SetDirection(b.direction.Reverse())
}

// SetCurrent 写入电流并扇出到每个导体
// 断开的支路始终保持零电流.
func (b *Branch) SetCurrent(i float64) {
	if b.direction.IsOpen() {
		i = types.OpenCurrent
	}
	b.current = i
	for _, c := range b.conductors {
		c.SetCurrent(i)
	}
}

// OnDirection 注册方向变化回调
func (b *Branch) OnDirection(fn utils.Callback[types.Direction]) (cancel func()) {
	return b.observers.Register(fn)
}

// String 调试输出
func (b *Branch) String() string {
	return fmt.Sprintf("%s#%d(%s I=%g)", b.name, b.id, b.direction, b.current)
}
