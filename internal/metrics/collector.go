package metrics

import (
	"time"

	"gorm.io/gorm"
)

// defaultPoolInterval 连接池指标的默认采样间隔
const defaultPoolInterval = 15 * time.Second

// PoolCollector 周期性刷新数据库连接池指标
// 连接池状态不随请求变化产生事件,只能定期采样
type PoolCollector struct {
	db       *gorm.DB
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// StartPoolCollector 启动连接池指标采样
// 启动时立即采一次,/metrics 不需要等一个完整周期才有读数
func StartPoolCollector(db *gorm.DB, interval time.Duration) *PoolCollector {
	if interval <= 0 {
		interval = defaultPoolInterval
	}
	c := &PoolCollector{
		db:       db,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *PoolCollector) run() {
	defer close(c.done)

	UpdateDatabaseMetrics(c.db)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			UpdateDatabaseMetrics(c.db)
		}
	}
}

// Stop 停止采样并等待采样协程退出
func (c *PoolCollector) Stop() {
	close(c.stop)
	<-c.done
}
