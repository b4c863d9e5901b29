// Package service 进度服务的业务编排: 专注结算、战斗、传送门突袭、档案与参数刷新。
package service

import (
	"time"

	"focus-quest/internal/domain/progression"
	"focus-quest/internal/domain/randsrc"
	"focus-quest/internal/pkg/log"
	"focus-quest/internal/pkg/metrics"
	"focus-quest/internal/pkg/notify"
)

// Deps 各服务共享的横切依赖, 零值字段使用默认实现
type Deps struct {
	Curve     *progression.Curve
	Publisher notify.Publisher
	Metrics   *metrics.GameMetrics
	Logger    log.Logger
	Random    randsrc.Source
	Clock     func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Curve == nil {
		d.Curve = progression.DefaultCurve
	}
	if d.Metrics == nil {
		d.Metrics = metrics.DefaultGameMetrics
	}
	if d.Logger == nil {
		d.Logger = log.GetLogger()
	}
	if d.Random == nil {
		d.Random = randsrc.True()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return d
}

func (d Deps) announcer() *progressAnnouncer {
	return &progressAnnouncer{
		publisher: d.Publisher,
		metrics:   d.Metrics,
		logger:    d.Logger.With("component", "progress_announcer"),
	}
}
