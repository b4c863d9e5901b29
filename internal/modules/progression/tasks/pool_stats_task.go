package tasks

import (
	"github.com/robfig/cron/v3"

	"focus-quest/internal/pkg/log"
)

// DefaultPoolStatsSpec 每 15 秒上报一次
const DefaultPoolStatsSpec = "*/15 * * * * *"

type poolStatsRecorder interface {
	RecordPoolStats()
}

// PoolStatsTask 定时上报 Redis 连接池状态
type PoolStatsTask struct {
	recorder poolStatsRecorder
	logger   log.Logger
	cron     *cron.Cron
}

func NewPoolStatsTask(recorder poolStatsRecorder, logger log.Logger) *PoolStatsTask {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &PoolStatsTask{recorder: recorder, logger: logger.With("task", "pool_stats")}
}

func (t *PoolStatsTask) Start() error {
	t.cron = cron.New(cron.WithSeconds())
	if _, err := t.cron.AddFunc(DefaultPoolStatsSpec, t.recorder.RecordPoolStats); err != nil {
		t.logger.Error("【定时任务】添加连接池上报任务失败", err)
		return err
	}
	t.cron.Start()
	return nil
}

func (t *PoolStatsTask) Stop() {
	if t.cron != nil {
		<-t.cron.Stop().Done()
	}
}
