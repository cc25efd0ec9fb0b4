package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент шлюза уведомлений (WhatsApp/SMS)
// Все отправки fire-and-forget: сбой уведомления никогда не откатывает
// операцию планирования, ошибка только логируется
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента уведомлений
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// NotifyRescheduled отправляет клиенту уведомление о переносе заказа
func (c *Client) NotifyRescheduled(ctx context.Context, successor *domain.ScheduledOrder) {
	notice := rescheduleNotice{
		OrderID:       successor.ID,
		CustomerID:    successor.CustomerID,
		CustomerPhone: successor.CustomerPhone,
		ScheduledDate: successor.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime: successor.ScheduledTime.String(),
	}

	if err := c.post(ctx, "/internal/notifications/reschedule", notice); err != nil {
		c.log.Warn("notifier: failed to send reschedule notice for order id=%d: %v", successor.ID, err)
		return
	}

	c.log.Info("notifier: reschedule notice sent for order id=%d", successor.ID)
}

// NotifyCancelled отправляет клиенту уведомление об отмене заказа
func (c *Client) NotifyCancelled(ctx context.Context, order *domain.ScheduledOrder, reason string) {
	notice := cancellationNotice{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		CustomerPhone: order.CustomerPhone,
	}
	if reason != "" {
		notice.Reason = &reason
	}

	if err := c.post(ctx, "/internal/notifications/cancellation", notice); err != nil {
		c.log.Warn("notifier: failed to send cancellation notice for order id=%d: %v", order.ID, err)
		return
	}

	c.log.Info("notifier: cancellation notice sent for order id=%d", order.ID)
}

// post отправляет JSON запрос шлюзу уведомлений
func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}

// NoopClient заглушка, когда уведомления отключены конфигурацией
type NoopClient struct{}

func (NoopClient) NotifyRescheduled(context.Context, *domain.ScheduledOrder) {}

func (NoopClient) NotifyCancelled(context.Context, *domain.ScheduledOrder, string) {}
