package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/EgorLis/Clashwatcher/internal/roster"
	"github.com/EgorLis/Clashwatcher/internal/telemetry"
)

// EventKind — вид изменения состава.
type EventKind int

const (
	Join EventKind = iota
	Leave
)

func (k EventKind) String() string {
	if k == Join {
		return "join"
	}
	return "leave"
}

// Event — одно изменение состава, потребляется Notifier'ом сразу.
type Event struct {
	Kind EventKind
	Tag  string
	Name string
}

// Fetcher отдаёт текущий состав клана. nil-снимок означает неудачу,
// статус — HTTP-код (0 при сетевой ошибке).
type Fetcher interface {
	Fetch(ctx context.Context) (roster.Roster, int, error)
}

// Notifier доставляет уведомление об одном событии.
type Notifier interface {
	Notify(ev Event) error
}

// Monitor владеет состоянием «последний известный состав» и крутит цикл
// опроса. Единственный писатель состояния — сам цикл.
type Monitor struct {
	fetcher  Fetcher
	notifier Notifier
	interval time.Duration
	log      *zap.Logger

	mu    sync.RWMutex
	known roster.Roster
}

func New(f Fetcher, n Notifier, interval time.Duration, log *zap.Logger) *Monitor {
	return &Monitor{
		fetcher:  f,
		notifier: n,
		interval: interval,
		log:      log,
		known:    roster.Roster{},
	}
}

// Interval — настроенный период опроса.
func (m *Monitor) Interval() time.Duration { return m.interval }

// Snapshot — копия состояния на момент вызова.
func (m *Monitor) Snapshot() roster.Roster {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return roster.Clone(m.known)
}

// Size — размер состояния на момент вызова.
func (m *Monitor) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.known)
}

// Run запускает наблюдатель и блокируется до отмены ctx.
func (m *Monitor) Run(ctx context.Context) {
	m.log.Info("starting clan monitor", zap.Duration("interval", m.interval))

	m.seed(ctx)

	t := time.NewTicker(m.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("clan monitor stopped")
			return
		case <-t.C:
			m.cycle(ctx)
		}
	}
}

// seed — стартовая инициализация без уведомлений.
func (m *Monitor) seed(ctx context.Context) {
	cur, status, err := m.fetcher.Fetch(ctx)
	if err != nil || cur == nil {
		// не страшно: первый удачный цикл отчитается обо всех как о вступивших
		m.log.Warn("initial fetch failed, starting with empty state",
			zap.Int("status", status), zap.Error(err))
		return
	}
	m.swap(cur)
	m.log.Info("initial members loaded", zap.Int("count", len(cur)))
}

// cycle — одна итерация: fetch -> diff -> notify -> swap.
func (m *Monitor) cycle(ctx context.Context) {
	telemetry.PollCycles.Inc()

	cur, status, err := m.fetcher.Fetch(ctx)
	if err != nil || cur == nil {
		// состояние не трогаем, ждём следующий тик
		telemetry.FetchFailures.Inc()
		m.log.Warn("fetch failed, retrying next interval",
			zap.Int("status", status), zap.Error(err))
		return
	}

	m.mu.RLock()
	prev := m.known
	m.mu.RUnlock()

	joined, left := roster.Diff(prev, cur)

	// сначала вступившие, потом ушедшие — порядок внутри категории не гарантируем
	for tag, name := range joined {
		m.emit(Event{Kind: Join, Tag: tag, Name: name})
	}
	for tag, name := range left {
		m.emit(Event{Kind: Leave, Tag: tag, Name: name})
	}

	// состояние меняем только после всех попыток уведомления
	m.swap(cur)
}

// emit — одна попытка доставки; неудача не мешает остальным.
func (m *Monitor) emit(ev Event) {
	if err := m.notifier.Notify(ev); err != nil {
		telemetry.Notifications.WithLabelValues(ev.Kind.String(), "error").Inc()
		m.log.Error("failed to send notification",
			zap.String("kind", ev.Kind.String()),
			zap.String("tag", ev.Tag),
			zap.Error(err))
		return
	}
	telemetry.Notifications.WithLabelValues(ev.Kind.String(), "ok").Inc()
	m.log.Info("notified",
		zap.String("kind", ev.Kind.String()),
		zap.String("tag", ev.Tag),
		zap.String("name", ev.Name))
}

func (m *Monitor) swap(cur roster.Roster) {
	m.mu.Lock()
	m.known = cur
	m.mu.Unlock()
	telemetry.RosterSize.Set(float64(len(cur)))
}
