package services

import (
	"context"
	"encoding/json"
	"time"

	"TaskFlowGo/config"

	"github.com/go-redis/redis/v8"
)

const dashboardCacheTTL = time.Minute

// DashboardCache 仪表盘缓存，旁路缓存模式。client 为 nil 时所有操作直接跳过
type DashboardCache struct {
	client *redis.Client
	prefix string
}

// NewDashboardCache 创建仪表盘缓存
func NewDashboardCache(client *redis.Client) *DashboardCache {
	return &DashboardCache{client: client, prefix: "dashboard:"}
}

// Get 读取缓存，未命中或出错返回 false
func (c *DashboardCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			config.Logger.Warnw("读取仪表盘缓存失败", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		config.Logger.Warnw("仪表盘缓存反序列化失败", "key", key, "error", err)
		return false
	}
	return true
}

// Set 写入缓存，失败只记日志不影响请求
func (c *DashboardCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		config.Logger.Warnw("仪表盘缓存序列化失败", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, dashboardCacheTTL).Err(); err != nil {
		config.Logger.Warnw("写入仪表盘缓存失败", "key", key, "error", err)
	}
}

// Invalidate 删除一组缓存键
func (c *DashboardCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		config.Logger.Warnw("删除仪表盘缓存失败", "keys", keys, "error", err)
	}
}
