package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestReloadWatcherSignals 测试文件修改后触发回调
func TestReloadWatcherSignals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anims.yaml")
	writeFile(t, path, "animations: []\n")

	changed := make(chan string, 4)
	rw := NewReloadWatcher(50*time.Millisecond, func(p string) {
		changed <- p
	})
	if err := rw.Watch(path); err != nil {
		t.Fatalf("开始监听失败: %v", err)
	}
	defer rw.Stop()

	// 连续写入应被合并
	for i := 0; i < 3; i++ {
		writeFile(t, path, "animations: []\n# edit\n")
	}

	select {
	case got := <-changed:
		if filepath.Base(got) != "anims.yaml" {
			t.Errorf("回调路径不符: %s", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("等待文件变化回调超时")
	}
}

// TestReloadWatcherIgnoresOtherFiles 测试同目录下其他文件的修改不触发回调
func TestReloadWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anims.yaml")
	writeFile(t, path, "animations: []\n")

	changed := make(chan string, 1)
	rw := NewReloadWatcher(20*time.Millisecond, func(p string) {
		changed <- p
	})
	if err := rw.Watch(path); err != nil {
		t.Fatalf("开始监听失败: %v", err)
	}
	defer rw.Stop()

	writeFile(t, filepath.Join(dir, "other.yaml"), "x: 1\n")

	select {
	case got := <-changed:
		t.Errorf("不应触发回调: %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}

// TestReloadWatcherStop 测试停止后不再触发
func TestReloadWatcherStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anims.yaml")
	writeFile(t, path, "animations: []\n")

	changed := make(chan string, 1)
	rw := NewReloadWatcher(20*time.Millisecond, func(p string) {
		changed <- p
	})
	if err := rw.Watch(path); err != nil {
		t.Fatalf("开始监听失败: %v", err)
	}
	rw.Stop()

	if err := os.WriteFile(path, []byte("animations: []\n# late\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		t.Errorf("停止后不应触发回调: %s", got)
	case <-time.After(300 * time.Millisecond):
	}
}
