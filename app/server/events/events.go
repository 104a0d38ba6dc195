package events

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"strconv"
	"time"
	"user-registration/app/server/models"
)

// UserRegistered 注册成功后发布的事件，不包含密码与头像
type UserRegistered struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserRegistered(user *models.User) UserRegistered {
	return UserRegistered{
		UserID:    strconv.FormatUint(uint64(user.ID), 10),
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

type Publisher interface {
	PublishUserRegistered(ctx context.Context, event UserRegistered) error
	Close() error
}

// Nop 未配置消息队列时使用
type Nop struct{}

func (Nop) PublishUserRegistered(context.Context, UserRegistered) error { return nil }
func (Nop) Close() error                                                { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w messageWriter
	l *zap.Logger
}

func NewKafkaPublisher(w messageWriter, l *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{w: w, l: l}
}

func (p *KafkaPublisher) PublishUserRegistered(ctx context.Context, event UserRegistered) error {
	value, err := json.Marshal(&event)
	if err != nil {
		return fmt.Errorf("marshal user registered event: %w", err)
	}

	if err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("write user registered event: %w", err)
	}

	p.l.Debug("user registered event published", zap.String("userId", event.UserID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
