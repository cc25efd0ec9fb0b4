package pgfeed

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Параметры переподключения pq.Listener
const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Event событие из канала LISTEN/NOTIFY
// Если Reset = true, соединение было переустановлено и уведомления могли
// быть пропущены — потребитель обязан перечитать состояние из БД
type Event struct {
	Payload []byte
	Reset   bool
}

// Listener подписка на канал Postgres NOTIFY поверх pq.Listener
// pq.Listener сам переподключается при обрыве соединения; после
// переподключения в Notify приходит nil, который транслируется в Event{Reset: true}
type Listener struct {
	pl      *pq.Listener
	channel string
	events  chan Event
	log     Logger
}

// NewListener создает подписку на указанный канал NOTIFY
func NewListener(dsn string, channel string, log Logger) (*Listener, error) {
	pl := pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error("pgfeed: listener event %d: %v", ev, err)
			}
		})

	if err := pl.Listen(channel); err != nil {
		pl.Close()
		return nil, fmt.Errorf("pgfeed: failed to listen on channel %q: %w", channel, err)
	}

	return &Listener{
		pl:      pl,
		channel: channel,
		events:  make(chan Event, 64),
		log:     log,
	}, nil
}

// Events канал событий; закрывается после завершения Run
func (l *Listener) Events() <-chan Event {
	return l.events
}

// Run читает уведомления до отмены контекста
// Периодически пингует соединение, чтобы вовремя заметить обрыв
func (l *Listener) Run(ctx context.Context) {
	defer close(l.events)

	l.log.Info("pgfeed: listening on channel %q", l.channel)

	for {
		select {
		case <-ctx.Done():
			return

		case n := <-l.pl.Notify:
			if n == nil {
				// Переподключение: состояние могло разъехаться
				l.log.Warn("pgfeed: connection re-established on channel %q, notifications may have been lost", l.channel)
				l.emit(ctx, Event{Reset: true})
				continue
			}
			l.emit(ctx, Event{Payload: []byte(n.Extra)})

		case <-time.After(pingInterval):
			go func() {
				if err := l.pl.Ping(); err != nil {
					l.log.Error("pgfeed: ping failed: %v", err)
				}
			}()
		}
	}
}

func (l *Listener) emit(ctx context.Context, ev Event) {
	select {
	case l.events <- ev:
	case <-ctx.Done():
	}
}

// Close закрывает подписку
func (l *Listener) Close() error {
	return l.pl.Close()
}
