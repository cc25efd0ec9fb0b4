package metrics

// IncReschedule увеличивает счетчик попыток переноса с меткой результата
func (m *Metrics) IncReschedule(result string) {
	m.ReschedulesTotal.WithLabelValues(result).Inc()
}

// IncCancellation увеличивает счетчик отмен с меткой источника
// (direct — прямой вызов API, sync — синхронизация отмен)
func (m *Metrics) IncCancellation(source string) {
	m.CancellationsTotal.WithLabelValues(source).Inc()
}

// IncCompensationFailure увеличивает счетчик проваленных компенсаций
func (m *Metrics) IncCompensationFailure() {
	m.CompensationFailuresTotal.Inc()
}

// IncSlotBecameFull увеличивает счетчик переходов слотов в заполненное состояние
func (m *Metrics) IncSlotBecameFull() {
	m.SlotsBecameFullTotal.Inc()
}

// Noop no-op реализация доменных счетчиков; используется, когда метрики
// отключены конфигурацией
type Noop struct{}

func (Noop) IncReschedule(string)    {}
func (Noop) IncCancellation(string)  {}
func (Noop) IncCompensationFailure() {}
func (Noop) IncSlotBecameFull()      {}
