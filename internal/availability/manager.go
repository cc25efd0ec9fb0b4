package availability

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/slots/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/pgfeed"
)

const (
	// viewIdleTTL время жизни представления без обращений
	viewIdleTTL = 10 * time.Minute
	// evictInterval период фоновой очистки простаивающих представлений
	evictInterval = time.Minute
)

type viewKey struct {
	establishmentID int64
	date            string
}

type trackedView struct {
	view       *view
	lastAccess time.Time
}

// Manager раздает актуальные представления доступности слотов.
// Представление пары (заведение, дата) загружается из хранилища при первом
// обращении и далее поддерживается событиями change feed; при потере
// соединения с feed все представления помечаются устаревшими и
// перезагружаются при следующем обращении
type Manager struct {
	repo    SlotRepository
	metrics Metrics
	log     Logger

	mu    sync.Mutex
	views map[viewKey]*trackedView
}

// NewManager создает новый экземпляр Manager
func NewManager(repo SlotRepository, metrics Metrics, log Logger) *Manager {
	return &Manager{
		repo:    repo,
		metrics: metrics,
		log:     log,
		views:   make(map[viewKey]*trackedView),
	}
}

// ListSlots возвращает слоты заведения на дату, отсортированные по времени
// начала. Отсутствующая дата трактуется как пустой день. При недоступности
// хранилища на холодном представлении возвращается ошибка, а не пустой
// список: пустой ответ означал бы "слотов нет", что хуже честного отказа
func (m *Manager) ListSlots(ctx context.Context, establishmentID int64, date *time.Time) ([]*models.SlotResponse, error) {
	if date == nil {
		return []*models.SlotResponse{}, nil
	}

	key := viewKey{establishmentID: establishmentID, date: date.Format(domain.DateFormat)}

	m.mu.Lock()
	if tracked, ok := m.views[key]; ok && !tracked.view.stale {
		tracked.lastAccess = time.Now()
		snapshot := tracked.view.snapshot()
		m.mu.Unlock()
		return snapshot, nil
	}
	m.mu.Unlock()

	// Загрузка идет вне мьютекса: медленное хранилище не должно блокировать
	// теплые чтения других пар и применение событий feed
	slots, err := m.repo.ListByEstablishmentAndDate(ctx, establishmentID, *date)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Параллельная загрузка могла завершиться первой; её представление
	// новее — оно уже впитало события feed, пришедшие во время нашей загрузки
	if tracked, ok := m.views[key]; ok && !tracked.view.stale {
		tracked.lastAccess = time.Now()
		return tracked.view.snapshot(), nil
	}

	v := newView(slots)
	m.views[key] = &trackedView{view: v, lastAccess: time.Now()}

	m.log.Debug("availability: loaded view establishment=%d date=%s slots=%d", establishmentID, key.date, len(slots))

	return v.snapshot(), nil
}

// Run потребляет события change feed до отмены контекста.
// Запускается в отдельной горутине из композиционного корня
func (m *Manager) Run(ctx context.Context, events <-chan pgfeed.Event) {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictIdle()
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.handleEvent(ev)
		}
	}
}

func (m *Manager) handleEvent(ev pgfeed.Event) {
	if ev.Reset {
		m.markAllStale()
		return
	}

	change, err := ParseSlotChange(ev.Payload)
	if err != nil {
		m.log.Warn("availability: dropping malformed feed event: %v", err)
		return
	}

	key := viewKey{
		establishmentID: change.Slot.EstablishmentID,
		date:            change.Slot.Date.Format(domain.DateFormat),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tracked, ok := m.views[key]
	if !ok {
		// Событие по неотслеживаемой паре: представление будет
		// загружено из хранилища при первом обращении
		return
	}

	becameFull := tracked.view.apply(change)
	if becameFull {
		m.metrics.IncSlotBecameFull()
		m.log.Info("availability: slot id=%d establishment=%d date=%s reached full capacity",
			change.Slot.ID, change.Slot.EstablishmentID, key.date)
	}
}

// markAllStale помечает все представления устаревшими.
// Вызывается при переподключении change feed: пропущенные за время разрыва
// события делают кэш недостоверным
func (m *Manager) markAllStale() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tracked := range m.views {
		tracked.view.stale = true
	}

	if len(m.views) > 0 {
		m.log.Warn("availability: change feed reconnected, marked %d views stale", len(m.views))
	}
}

func (m *Manager) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-viewIdleTTL)
	for key, tracked := range m.views {
		if tracked.lastAccess.Before(cutoff) {
			delete(m.views, key)
		}
	}
}
