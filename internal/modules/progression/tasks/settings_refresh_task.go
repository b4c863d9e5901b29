package tasks

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"focus-quest/internal/pkg/log"
)

// DefaultSettingsRefreshSpec 每分钟第 0 秒
const DefaultSettingsRefreshSpec = "0 * * * * *"

// refreshTimeout 单次刷新超时
const refreshTimeout = 10 * time.Second

type settingsRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// SettingsRefreshTask 定时从存储拉取经验参数并热更新
type SettingsRefreshTask struct {
	refresher settingsRefresher
	spec      string
	logger    log.Logger
	cron      *cron.Cron
}

// NewSettingsRefreshTask spec 为空时使用默认表达式
func NewSettingsRefreshTask(refresher settingsRefresher, spec string, logger log.Logger) *SettingsRefreshTask {
	if spec == "" {
		spec = DefaultSettingsRefreshSpec
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &SettingsRefreshTask{
		refresher: refresher,
		spec:      spec,
		logger:    logger.With("task", "settings_refresh"),
	}
}

// Start 先同步刷新一次, 再按表达式调度
func (t *SettingsRefreshTask) Start() error {
	t.RunOnce()

	// Cron 表达式: 秒 分 时 日 月 周
	t.cron = cron.New(cron.WithSeconds())
	if _, err := t.cron.AddFunc(t.spec, t.RunOnce); err != nil {
		t.logger.Error("【定时任务】添加参数刷新任务失败", err, log.String("spec", t.spec))
		return err
	}
	t.cron.Start()
	t.logger.Info("【定时任务】参数刷新任务已启动", log.String("spec", t.spec))
	return nil
}

// RunOnce 执行一次刷新, 失败只记录日志, 保留旧配置
func (t *SettingsRefreshTask) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	applied, err := t.refresher.Refresh(ctx)
	if err != nil {
		t.logger.Error("【定时任务】参数刷新失败", err)
		return
	}
	t.logger.Debug("【定时任务】参数刷新完成", log.Int("applied", applied))
}

// Stop 停止调度并等待正在执行的任务结束
func (t *SettingsRefreshTask) Stop() {
	if t.cron == nil {
		return
	}
	t.logger.Info("【定时任务】正在停止参数刷新任务...")
	<-t.cron.Stop().Done()
	t.logger.Info("【定时任务】参数刷新任务已停止")
}
