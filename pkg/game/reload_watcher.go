package game

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultReloadDebounce 连续文件事件的合并窗口
const DefaultReloadDebounce = 300 * time.Millisecond

// ReloadWatcher 监听描述符文件的修改
//
// 只负责发出信号，不加载动画表：回调里调用 AnimManager.ReloadFromConfig，
// 新表在下一次 Update 时生效。
//
// 监听的是文件所在目录，以兼容先写临时文件再重命名的编辑器。
type ReloadWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	stopChan chan struct{}
	onChange func(path string)
}

// NewReloadWatcher 创建监听器
//
// 参数：
//   - debounce: 事件合并窗口，<= 0 时使用 DefaultReloadDebounce
//   - onChange: 文件变化后调用，在监听 goroutine 中执行
func NewReloadWatcher(debounce time.Duration, onChange func(path string)) *ReloadWatcher {
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}
	return &ReloadWatcher{
		debounce: debounce,
		onChange: onChange,
	}
}

// Watch 开始监听 path，之前的监听会被停止
func (rw *ReloadWatcher) Watch(path string) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	rw.stopLocked()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return err
	}

	rw.watcher = watcher
	rw.path = abs
	rw.stopChan = make(chan struct{})

	go rw.watchLoop(watcher, rw.stopChan, abs)

	log.Printf("[ReloadWatcher] 开始监听 %s", abs)
	return nil
}

// Stop 停止监听
func (rw *ReloadWatcher) Stop() {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	rw.stopLocked()
}

func (rw *ReloadWatcher) stopLocked() {
	if rw.stopChan != nil {
		close(rw.stopChan)
		rw.stopChan = nil
	}
	if rw.watcher != nil {
		rw.watcher.Close()
		rw.watcher = nil
	}
	rw.path = ""
}

func (rw *ReloadWatcher) watchLoop(watcher *fsnotify.Watcher, stopChan chan struct{}, target string) {
	var debounceTimer *time.Timer

	for {
		select {
		case <-stopChan:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !rw.relevant(event, target) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(rw.debounce, func() {
				// 文件可能被删除后还没重新创建
				if _, err := os.Stat(target); err != nil {
					return
				}
				rw.mu.Lock()
				active := rw.path == target
				rw.mu.Unlock()
				if active && rw.onChange != nil {
					rw.onChange(target)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[ReloadWatcher] Warning: %v", err)
		}
	}
}

// relevant 精确匹配的写入/创建/重命名/删除，或者同名文件的创建/重命名（原子保存）
func (rw *ReloadWatcher) relevant(event fsnotify.Event, target string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	eventPath := filepath.Clean(event.Name)
	if eventPath == target {
		return true
	}
	return filepath.Base(eventPath) == filepath.Base(target) &&
		event.Op&(fsnotify.Rename|fsnotify.Create) != 0
}
