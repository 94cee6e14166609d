package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// LogWatcher 监听配置文件并在日志配置变化时回调
// 只有日志配置支持运行中调整;其余配置项的变更需要重启生效,
// 这里刻意不往外递。回调在 fsnotify 的事件协程上执行。
type LogWatcher struct {
	viper *viper.Viper
	onLog func(LogConfig)

	mu      sync.Mutex
	lastLog LogConfig
	closed  bool
}

// WatchLog 读取配置文件并开始监听其日志配置
// 文件不可读时直接报错,调用方决定是否降级为无热更新运行
func WatchLog(path string, onLog func(LogConfig)) (*LogWatcher, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var initial Config
	if err := v.Unmarshal(&initial); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	w := &LogWatcher{
		viper:   v,
		onLog:   onLog,
		lastLog: initial.Log,
	}
	v.OnConfigChange(func(fsnotify.Event) {
		w.reload()
	})
	v.WatchConfig()
	return w, nil
}

// reload 重新解析配置,日志配置有实际变化时才回调
// 编辑器保存往往触发多个文件事件,按内容去重避免重复回调
func (w *LogWatcher) reload() {
	var cfg Config
	if err := w.viper.Unmarshal(&cfg); err != nil {
		return
	}

	w.mu.Lock()
	if w.closed || cfg.Log == w.lastLog {
		w.mu.Unlock()
		return
	}
	w.lastLog = cfg.Log
	w.mu.Unlock()

	w.onLog(cfg.Log)
}

// Close 停止向回调递送变更
func (w *LogWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}
