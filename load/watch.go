package load

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"electric/utils"
)

// DefaultDebounce 默认防抖间隔
const DefaultDebounce = 100 * time.Millisecond

// Watcher 监视单个拓扑文件的变化
type Watcher struct {
	Path    string
	Changes <-chan string // 防抖后的变化通知，未读取的通知会合并

	changes  chan string
	done     chan struct{}
	started  bool // loop 已启动，Stop 需等待其退出
	stop     sync.Once
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// NewWatcher 创建文件监视器
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan string, 1)
	return &Watcher{
		Path:     abs,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		debounce: debounce,
		watcher:  fw,
	}, nil
}

// Start 开始监视；监视所在目录以覆盖编辑器的替换式保存
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	w.started = true
	go w.loop()
	return nil
}

// Stop 关闭监视器并关闭通知通道；未 Start 或重复调用均可
func (w *Watcher) Stop() {
	w.stop.Do(func() {
		w.watcher.Close()
		if w.started {
			<-w.done
		}
		close(w.changes)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)
	log := utils.Logger("load")

	var pending time.Time
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case now := <-ticker.C:
			if pending.IsZero() || now.Sub(pending) < w.debounce {
				continue
			}
			pending = time.Time{}
			select {
			case w.changes <- w.Path:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", "path", w.Path, "err", err)
		}
	}
}

// Watch 监视文件直到 ctx 结束，返回的通道随之关闭
func Watch(ctx context.Context, path string, debounce time.Duration) (<-chan string, error) {
	w, err := NewWatcher(path, debounce)
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return nil, err
	}
	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return w.Changes, nil
}
