package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchLog_MissingFile(t *testing.T) {
	_, err := WatchLog(filepath.Join(t.TempDir(), "nope.yaml"), func(LogConfig) {})
	assert.Error(t, err)
}

// 不经过 fsnotify,直接驱动 reload 验证递送/去重/关闭语义
func TestReloadDeliversLogChangesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	var delivered []LogConfig
	w := &LogWatcher{
		viper:   v,
		onLog:   func(cfg LogConfig) { delivered = append(delivered, cfg) },
		lastLog: LogConfig{Level: "info"},
	}

	// 内容未变的事件被去重
	w.reload()
	assert.Empty(t, delivered)

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644))
	require.NoError(t, v.ReadInConfig())
	w.reload()
	require.Len(t, delivered, 1)
	assert.Equal(t, "debug", delivered[0].Level)

	// 关闭后不再递送
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0644))
	require.NoError(t, v.ReadInConfig())
	w.Close()
	w.reload()
	assert.Len(t, delivered, 1)
}
