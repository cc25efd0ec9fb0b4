package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Publisher интерфейс публикации событий
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// Subscriber интерфейс подписки на события
type Subscriber interface {
	Subscribe(ctx context.Context, subject string, handler func(ctx context.Context, msg []byte) error) error
}

// NATSBus публикация и подписка поверх одного NATS соединения
type NATSBus struct {
	conn *nats.Conn
}

// Connect устанавливает соединение с NATS
func Connect(url string) (*NATSBus, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(nats.DefaultReconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("events: failed to connect to NATS at %s: %w", url, err)
	}
	return &NATSBus{conn: conn}, nil
}

// Publish публикует сообщение в subject
func (b *NATSBus) Publish(_ context.Context, subject string, data []byte) error {
	if err := b.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("events: failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Subscribe подписывается на subject; handler вызывается для каждого сообщения
// Ошибки handler не прерывают подписку — обработка ошибок на стороне handler
func (b *NATSBus) Subscribe(ctx context.Context, subject string, handler func(ctx context.Context, msg []byte) error) error {
	sub, err := b.conn.Subscribe(subject, func(m *nats.Msg) {
		_ = handler(ctx, m.Data)
	})
	if err != nil {
		return fmt.Errorf("events: failed to subscribe to %s: %w", subject, err)
	}

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()

	return nil
}

// Close закрывает соединение, дождавшись отправки буферизованных сообщений
func (b *NATSBus) Close() {
	if b.conn != nil {
		_ = b.conn.Drain()
	}
}
