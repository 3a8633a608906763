package utils

import (
	"sync"
	"time"
)

// 使用 sync.Map 保证并发安全
// 目前只用来缓存系统定价默认值这类读多写少的配置行

// cacheItem 内部结构，包含值和过期时间
type cacheItem struct {
	value      interface{}
	expiration int64
}

// TTLCache 带过期时间的内存缓存
type TTLCache struct {
	store sync.Map
}

// NewTTLCache 创建缓存实例
func NewTTLCache() *TTLCache {
	return &TTLCache{}
}

// Set 设置缓存
func (c *TTLCache) Set(key string, value interface{}, ttl time.Duration) {
	c.store.Store(key, cacheItem{
		value:      value,
		expiration: time.Now().Add(ttl).UnixNano(),
	})
}

// Get 获取缓存并验证是否过期
func (c *TTLCache) Get(key string) (interface{}, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		return nil, false
	}

	item := val.(cacheItem)

	// 检查是否过期
	if time.Now().UnixNano() > item.expiration {
		c.store.Delete(key) // 懒删除
		return nil, false
	}

	return item.value, true
}

// Delete 删除缓存（配置更新后立即失效）
func (c *TTLCache) Delete(key string) {
	c.store.Delete(key)
}
