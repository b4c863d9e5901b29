package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace 所有默认指标使用的命名空间
const DefaultNamespace = "focus_quest"

const defaultServiceName = "progression"

var (
	registererMu sync.RWMutex
	registerer   prometheus.Registerer = prometheus.DefaultRegisterer

	serviceName atomic.Value
)

func init() {
	serviceName.Store(defaultServiceName)
}

// SetRegisterer 设置默认 Registerer, 传 nil 时恢复 prometheus.DefaultRegisterer。
func SetRegisterer(r prometheus.Registerer) {
	if r == nil {
		r = prometheus.DefaultRegisterer
	}
	registererMu.Lock()
	registerer = r
	registererMu.Unlock()
}

// GetRegisterer 返回当前的 Registerer。
func GetRegisterer() prometheus.Registerer {
	registererMu.RLock()
	defer registererMu.RUnlock()
	return registerer
}

// SetServiceName 配置 service 标签, 进程启动时调用一次。
func SetServiceName(name string) {
	if name == "" {
		name = defaultServiceName
	}
	serviceName.Store(name)
}

// GetServiceName 返回当前的 service 标签。
func GetServiceName() string {
	if v, ok := serviceName.Load().(string); ok && v != "" {
		return v
	}
	return defaultServiceName
}
