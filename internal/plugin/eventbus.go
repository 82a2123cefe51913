package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/damoang/angple-contents/internal/domain"
)

// 이벤트 토픽
const (
	// TopicTranslationDeleted 소유 엔티티의 번역 하나가 삭제됨 (payload: TranslationDeleted)
	TopicTranslationDeleted = "translation.after_delete"
)

// TranslationDeleted 번역 삭제 이벤트 payload
type TranslationDeleted struct {
	Parent       domain.GenericReference `json:"parent"`
	LanguageCode string                  `json:"language_code"`
}

// Event 컴포넌트 간 이벤트
type Event struct {
	Topic     string      `json:"topic"`
	Source    string      `json:"source"` // 발행 컴포넌트
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventHandler 이벤트 핸들러 함수
type EventHandler func(ctx context.Context, event Event) error

type subscription struct {
	name    string
	handler EventHandler
}

// EventBus 이벤트 발행/구독 시스템 (동기 실행)
type EventBus struct {
	subscribers map[string][]subscription // topic -> handlers
	mu          sync.RWMutex
	logger      Logger
}

// NewEventBus 생성자
func NewEventBus(logger Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[string][]subscription),
		logger:      logger,
	}
}

// Subscribe 토픽 구독
func (eb *EventBus) Subscribe(name, topic string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[topic] = append(eb.subscribers[topic], subscription{
		name:    name,
		handler: handler,
	})
	eb.logger.Debug("%s subscribed to topic: %s", name, topic)
}

// Unsubscribe 구독자의 모든 구독 해제
func (eb *EventBus) Unsubscribe(name string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for topic, subs := range eb.subscribers {
		var remaining []subscription
		for _, s := range subs {
			if s.name != name {
				remaining = append(remaining, s)
			}
		}
		if len(remaining) == 0 {
			delete(eb.subscribers, topic)
		} else {
			eb.subscribers[topic] = remaining
		}
	}
}

// Publish 이벤트 발행 (동기: 모든 핸들러 순차 실행)
// 핸들러 하나가 실패해도 나머지는 실행되고, 에러는 모아서 반환한다
func (eb *EventBus) Publish(ctx context.Context, source, topic string, payload interface{}) error {
	eb.mu.RLock()
	subs := make([]subscription, len(eb.subscribers[topic]))
	copy(subs, eb.subscribers[topic])
	eb.mu.RUnlock()

	if len(subs) == 0 {
		return nil
	}

	event := Event{
		Topic:     topic,
		Source:    source,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	var errs []error
	for _, s := range subs {
		if err := eb.dispatch(ctx, s, event); err != nil {
			eb.logger.Error("Event handler failed [%s/%s → %s]: %v", source, topic, s.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func (eb *EventBus) dispatch(ctx context.Context, s subscription, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return s.handler(ctx, event)
}

// GetSubscriptions 구독 현황 조회
func (eb *EventBus) GetSubscriptions() map[string][]string {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	result := make(map[string][]string)
	for topic, subs := range eb.subscribers {
		for _, s := range subs {
			result[topic] = append(result[topic], s.name)
		}
	}
	return result
}
