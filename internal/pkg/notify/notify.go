package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// 事件类型
const (
	EventLevelUp       = "level_up"
	EventRankUp        = "rank_up"
	EventRaidCompleted = "raid_completed"
)

// SubjectPrefix 所有进度事件的 subject 前缀
const SubjectPrefix = "focus_quest.progression."

// Subject 返回事件类型对应的 subject
func Subject(eventType string) string {
	return SubjectPrefix + eventType
}

// Event 发布到 NATS 的事件信封
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// NewEvent 创建事件, 分配随机 ID
func NewEvent(eventType, userID string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// LevelUpPayload 升级事件
type LevelUpPayload struct {
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
	Source   string `json:"source"`
}

// RankUpPayload 段位提升事件
type RankUpPayload struct {
	OldRank string `json:"old_rank"`
	NewRank string `json:"new_rank"`
	Title   string `json:"title"`
}

// RaidCompletedPayload 传送门 Boss 被击败
type RaidCompletedPayload struct {
	BossID   string `json:"boss_id"`
	BossName string `json:"boss_name"`
	Rank     string `json:"rank"`
	XP       int64  `json:"xp"`
	Gold     int64  `json:"gold"`
}

// Publisher 事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NATSPublisher 基于 NATS 的发布器, 没有连接时静默降级
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher conn 可以为 nil
func NewNATSPublisher(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// Connect 连接 NATS, 断线后无限重连
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return conn, nil
}

// Publish 序列化并发布事件
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	if p == nil || p.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event failed: %w", event.Type, err)
	}
	return p.conn.Publish(Subject(event.Type), data)
}

// Connected 连接是否可用, 未配置连接时视为可用
func (p *NATSPublisher) Connected() bool {
	if p == nil || p.conn == nil {
		return true
	}
	return p.conn.IsConnected()
}

// Close 刷新缓冲并关闭连接
func (p *NATSPublisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}
