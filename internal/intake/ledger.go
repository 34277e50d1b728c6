package intake

import (
	"sort"
	"sync"

	"github.com/Terry7788/caloric-intake-calculator/internal/model"
)

// Ledger keeps one DailyEntry per date in memory. Each date has its own lock
// and a mutation holds it for the whole add/remove, so concurrent writers to
// the same day are serialized while different days proceed independently.
type Ledger struct {
	agg *Aggregator

	mu    sync.Mutex
	locks map[model.Day]*sync.Mutex
	days  map[model.Day]*model.DailyEntry
}

func NewLedger(agg *Aggregator) *Ledger {
	return &Ledger{
		agg:   agg,
		locks: make(map[model.Day]*sync.Mutex),
		days:  make(map[model.Day]*model.DailyEntry),
	}
}

func (l *Ledger) dayLock(date model.Day) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[date]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[date] = lock
	}
	return lock
}

func (l *Ledger) load(date model.Day) *model.DailyEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.days[date]
}

func (l *Ledger) store(d *model.DailyEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.days[d.Date] = d
}

// Put seeds the ledger with a day loaded from elsewhere, replacing any
// existing entry for that date.
func (l *Ledger) Put(d model.DailyEntry) {
	lock := l.dayLock(d.Date)
	lock.Lock()
	defer lock.Unlock()
	l.store(cloneDay(d))
}

func (l *Ledger) Add(date model.Day, meal model.MealType, entry model.FoodEntry) (model.DailyEntry, error) {
	lock := l.dayLock(date)
	lock.Lock()
	defer lock.Unlock()

	updated, err := l.agg.AddEntry(l.load(date), date, meal, entry)
	if err != nil {
		return model.DailyEntry{}, err
	}
	l.store(updated)
	return *cloneDay(*updated), nil
}

func (l *Ledger) Remove(date model.Day, meal model.MealType, entryID string) (model.DailyEntry, error) {
	lock := l.dayLock(date)
	lock.Lock()
	defer lock.Unlock()

	updated, err := l.agg.RemoveEntry(l.load(date), meal, entryID)
	if err != nil {
		return model.DailyEntry{}, err
	}
	l.store(updated)
	return *cloneDay(*updated), nil
}

func (l *Ledger) Replace(date model.Day, meal model.MealType, entryID string, entry model.FoodEntry) (model.DailyEntry, error) {
	lock := l.dayLock(date)
	lock.Lock()
	defer lock.Unlock()

	updated, err := l.agg.ReplaceEntry(l.load(date), meal, entryID, entry)
	if err != nil {
		return model.DailyEntry{}, err
	}
	l.store(updated)
	return *cloneDay(*updated), nil
}

// Day returns a copy of the day, or false when nothing was logged for it.
func (l *Ledger) Day(date model.Day) (model.DailyEntry, bool) {
	lock := l.dayLock(date)
	lock.Lock()
	defer lock.Unlock()
	d := l.load(date)
	if d == nil {
		return model.DailyEntry{}, false
	}
	return *cloneDay(*d), true
}

// Snapshot returns copies of every day in date order.
func (l *Ledger) Snapshot() []model.DailyEntry {
	l.mu.Lock()
	dates := make([]model.Day, 0, len(l.days))
	for date := range l.days {
		dates = append(dates, date)
	}
	l.mu.Unlock()
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	out := make([]model.DailyEntry, 0, len(dates))
	for _, date := range dates {
		if d, ok := l.Day(date); ok {
			out = append(out, d)
		}
	}
	return out
}

// Summarize runs SummarizeRange over the ledger's current days.
func (l *Ledger) Summarize(w Window, fallback TargetFunc) ([]model.DaySummary, error) {
	return SummarizeRange(l.Snapshot(), w, fallback)
}
