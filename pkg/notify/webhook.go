package notify

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ==================== 定价事件通知 ====================
//
// 通知的投递（站内信/邮件/IM）由外部通知服务负责，这里只把事件推给它的 webhook。
// 推送失败只记日志不影响业务，定价写入永远不等通知结果。

// 事件类型
const (
	EventRecalcCompleted  = "pricing.recalc_completed"  // 批量重算完成（含部分成功）
	EventShippingLinked   = "pricing.shipping_linked"   // 运费合并建立
	EventShippingUnlinked = "pricing.shipping_unlinked" // 运费合并解除（单向操作，被覆盖行不会自动恢复）
)

// Event 事件信封
type Event struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Payload    map[string]interface{} `json:"payload"`
}

// Notifier 事件发布接口
type Notifier interface {
	// Publish 发布事件，不返回错误：投递是尽力而为
	Publish(ctx context.Context, eventType string, payload map[string]interface{})
}

// ==================== Webhook 实现 ====================

// WebhookNotifier 把事件 POST 给外部通知服务
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

// NewWebhookNotifier 创建 webhook 通知器
// url 为空时返回 Nop 实现（本地开发不配 webhook 也能跑）
func NewWebhookNotifier(url string) Notifier {
	if url == "" {
		return NopNotifier{}
	}
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(1)
	return &WebhookNotifier{client: client, url: url}
}

func (n *WebhookNotifier) Publish(ctx context.Context, eventType string, payload map[string]interface{}) {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now(),
		Payload:    payload,
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(n.url)
	if err != nil {
		logrus.WithError(err).WithField("event_type", eventType).Warn("定价事件推送失败")
		return
	}
	if resp.IsError() {
		logrus.WithFields(logrus.Fields{
			"event_type": eventType,
			"status":     resp.StatusCode(),
		}).Warn("通知服务返回异常状态码")
	}
}

// ==================== Nop 实现 ====================

// NopNotifier 空实现，未配置 webhook 或单元测试时使用
type NopNotifier struct{}

func (NopNotifier) Publish(ctx context.Context, eventType string, payload map[string]interface{}) {}
