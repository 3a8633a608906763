package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ==================== 重算限流器 ====================

// 批量重算一行一次写、无事务无锁，两个运营同时对
// 同一订单触发重算就是互相覆盖。这里按订单维度加冷却期，把最常见的
// "手滑连点两次"挡掉；真正的并发控制（版本号/行锁）暂不做。

// RecalcThrottle 重算限流器
type RecalcThrottle struct {
	locks sync.Map // key -> *throttleEntry
}

// throttleEntry 锁条目
type throttleEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalThrottle = &RecalcThrottle{}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行
// key: 限流键，如 "order:123:recalc"
func (t *RecalcThrottle) Check(key string, interval time.Duration) CheckResult {
	actual, _ := t.locks.LoadOrStore(key, &throttleEntry{})
	entry := actual.(*throttleEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	entry.lastTime = now
	return CheckResult{Allowed: true}
}

// ==================== Gin 中间件 ====================

// 默认冷却间隔：一次全类别重算通常几秒内跑完
const defaultRecalcInterval = 10 * time.Second

// OrderMutationThrottle 订单批量写入限流中间件
// 按订单 ID 维度限流，interval 为 0 时用默认冷却间隔
//
// 使用示例:
//
//	orders.POST("/:id/recalculate",
//	    middleware.OrderMutationThrottle(0),
//	    recalcCtl.Recalculate,
//	)
func OrderMutationThrottle(interval time.Duration) gin.HandlerFunc {
	if interval == 0 {
		interval = defaultRecalcInterval
	}

	return func(c *gin.Context) {
		orderIDStr := c.Param("id")
		if orderIDStr == "" {
			c.Next()
			return
		}
		orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的订单ID"})
			c.Abort()
			return
		}

		key := fmt.Sprintf("order:%d:recalc", orderID)
		result := globalThrottle.Check(key, interval)
		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "该订单的重算正在冷却中，请稍后再试",
				"retry_after": int(result.RetryAfter.Seconds()) + 1,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
