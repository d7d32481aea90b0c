package utils

import "sync"

// Callback 事件回调
type Callback[T any] func(old, new T)

// Observers 同步事件注册表
// @ 回调按注册顺序在触发变更的调用中同步执行,不经过通道也不启动协程.
// @ 回调内部允许再次注册或取消注册,本次分发使用分发开始时的快照.
type Observers[T any] struct {
	mu    sync.Mutex
	next  int
	order []int               // 注册顺序
	calls map[int]Callback[T] // 注册的回调
}

// Register 注册回调,返回取消函数
func (o *Observers[T]) Register(fn Callback[T]) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = make(map[int]Callback[T])
	}
	id := o.next
	o.next++
	o.calls[id] = fn
	o.order = append(o.order, id)
	var once sync.Once
	return func() { once.Do(func() { o.remove(id) }) }
}

// remove 删除回调
func (o *Observers[T]) remove(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.calls, id)
	for i, v := range o.order {
		if v == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Len 已注册数量
func (o *Observers[T]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.order)
}

// Notify 按注册顺序调用
func (o *Observers[T]) Notify(old, new T) {
	o.mu.Lock()
	if len(o.order) == 0 {
		o.mu.Unlock()
		return
	}
	list := make([]Callback[T], 0, len(o.order))
	for _, id := range o.order {
		list = append(list, o.calls[id])
	}
	o.mu.Unlock()
	for _, fn := range list {
		fn(old, new)
	}
}
