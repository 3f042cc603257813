// Package storetest provides in-memory repository fakes that deliver
// collection snapshots synchronously, so container behavior can be
// exercised without a database.
package storetest

import (
	"context"
	"sort"
	"sync"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/store"
)

var (
	_ store.TodoRepository    = (*FakeTodoRepo)(nil)
	_ store.EventRepository   = (*FakeEventRepo)(nil)
	_ store.NoteRepository    = (*FakeNoteRepo)(nil)
	_ store.AlarmRepository   = (*FakeAlarmRepo)(nil)
	_ store.ProfileRepository = (*FakeProfileRepo)(nil)
)

// Fixture bundles the five fakes and exposes them as store.Collections.
type Fixture struct {
	Todos    *FakeTodoRepo
	Events   *FakeEventRepo
	Notes    *FakeNoteRepo
	Alarms   *FakeAlarmRepo
	Profiles *FakeProfileRepo
}

func NewFixture() *Fixture {
	return &Fixture{
		Todos:    &FakeTodoRepo{},
		Events:   &FakeEventRepo{},
		Notes:    &FakeNoteRepo{},
		Alarms:   &FakeAlarmRepo{},
		Profiles: NewFakeProfileRepo(),
	}
}

func (f *Fixture) Collections() store.Collections {
	return store.Collections{
		Todos:    f.Todos,
		Events:   f.Events,
		Notes:    f.Notes,
		Alarms:   f.Alarms,
		Profiles: f.Profiles,
	}
}

type watcher[T any] struct {
	userID string
	fn     func([]T)
	closed bool
}

// broadcaster delivers per-user snapshots to registered watchers. Every
// mutation triggers an immediate synchronous re-delivery, standing in for
// the change stream round trip.
type broadcaster[T any] struct {
	mu       sync.Mutex
	watchers []*watcher[T]
}

func (b *broadcaster[T]) watch(userID string, fn func([]T), snapshot func(string) []T) func() {
	b.mu.Lock()
	w := &watcher[T]{userID: userID, fn: fn}
	b.watchers = append(b.watchers, w)
	b.mu.Unlock()

	// Initial snapshot is delivered immediately on subscribe.
	fn(snapshot(userID))

	return func() {
		b.mu.Lock()
		w.closed = true
		b.mu.Unlock()
	}
}

func (b *broadcaster[T]) notify(snapshot func(string) []T) {
	b.mu.Lock()
	watchers := append([]*watcher[T](nil), b.watchers...)
	b.mu.Unlock()

	for _, w := range watchers {
		b.mu.Lock()
		closed := w.closed
		b.mu.Unlock()
		if !closed {
			w.fn(snapshot(w.userID))
		}
	}
}

// --- todos ---

type FakeTodoRepo struct {
	mu    sync.Mutex
	docs  []*model.Todo
	Err   error // returned by every mutation when set
	bcast broadcaster[*model.Todo]
}

func (r *FakeTodoRepo) snapshot(userID string) []*model.Todo {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Todo
	for _, t := range r.docs {
		if t.UserID == userID {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *FakeTodoRepo) CreateTodo(ctx context.Context, todo *model.Todo) error {
	if r.Err != nil {
		return r.Err
	}
	copied := *todo
	r.mu.Lock()
	r.docs = append(r.docs, &copied)
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeTodoRepo) GetUserTodos(ctx context.Context, userID string) ([]*model.Todo, error) {
	return r.snapshot(userID), nil
}

func (r *FakeTodoRepo) SetCompleted(ctx context.Context, userID, todoID string, completed bool) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	for _, t := range r.docs {
		if t.UserID == userID && t.TodoID == todoID {
			t.Completed = completed
		}
	}
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeTodoRepo) DeleteTodo(ctx context.Context, userID, todoID string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	kept := r.docs[:0]
	for _, t := range r.docs {
		if !(t.UserID == userID && t.TodoID == todoID) {
			kept = append(kept, t)
		}
	}
	r.docs = kept
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeTodoRepo) WatchUserTodos(ctx context.Context, userID string, fn func([]*model.Todo)) (func(), error) {
	return r.bcast.watch(userID, fn, r.snapshot), nil
}

// --- events ---

type FakeEventRepo struct {
	mu    sync.Mutex
	docs  []*model.CalendarEvent
	Err   error
	bcast broadcaster[*model.CalendarEvent]
}

func (r *FakeEventRepo) snapshot(userID string) []*model.CalendarEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.CalendarEvent
	for _, e := range r.docs {
		if e.UserID == userID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}

func (r *FakeEventRepo) CreateEvent(ctx context.Context, event *model.CalendarEvent) error {
	if r.Err != nil {
		return r.Err
	}
	copied := *event
	r.mu.Lock()
	r.docs = append(r.docs, &copied)
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeEventRepo) GetUserEvents(ctx context.Context, userID string) ([]*model.CalendarEvent, error) {
	return r.snapshot(userID), nil
}

func (r *FakeEventRepo) UpdateEvent(ctx context.Context, userID, eventID string, update *dto.EventUpdate) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	for _, e := range r.docs {
		if e.UserID != userID || e.EventID != eventID {
			continue
		}
		if update.Title != nil {
			e.Title = *update.Title
		}
		if update.Date != nil {
			e.Date = *update.Date
		}
		if update.Time != nil {
			e.Time = *update.Time
		}
		if update.Description != nil {
			e.Description = *update.Description
		}
	}
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeEventRepo) DeleteEvent(ctx context.Context, userID, eventID string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	kept := r.docs[:0]
	for _, e := range r.docs {
		if !(e.UserID == userID && e.EventID == eventID) {
			kept = append(kept, e)
		}
	}
	r.docs = kept
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeEventRepo) WatchUserEvents(ctx context.Context, userID string, fn func([]*model.CalendarEvent)) (func(), error) {
	return r.bcast.watch(userID, fn, r.snapshot), nil
}

// --- notes ---

type FakeNoteRepo struct {
	mu    sync.Mutex
	docs  []*model.Note
	Err   error
	bcast broadcaster[*model.Note]
}

func (r *FakeNoteRepo) snapshot(userID string) []*model.Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Note
	for _, n := range r.docs {
		if n.UserID == userID {
			copied := *n
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func (r *FakeNoteRepo) CreateNote(ctx context.Context, note *model.Note) error {
	if r.Err != nil {
		return r.Err
	}
	copied := *note
	r.mu.Lock()
	r.docs = append(r.docs, &copied)
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeNoteRepo) GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	return r.snapshot(userID), nil
}

func (r *FakeNoteRepo) UpdateNote(ctx context.Context, userID, noteID string, update *dto.NoteUpdate) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	for _, n := range r.docs {
		if n.UserID != userID || n.NoteID != noteID {
			continue
		}
		if update.Title != nil {
			n.Title = *update.Title
		}
		if update.Content != nil {
			n.Content = *update.Content
		}
	}
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeNoteRepo) DeleteNote(ctx context.Context, userID, noteID string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	kept := r.docs[:0]
	for _, n := range r.docs {
		if !(n.UserID == userID && n.NoteID == noteID) {
			kept = append(kept, n)
		}
	}
	r.docs = kept
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeNoteRepo) WatchUserNotes(ctx context.Context, userID string, fn func([]*model.Note)) (func(), error) {
	return r.bcast.watch(userID, fn, r.snapshot), nil
}

// --- alarms ---

type FakeAlarmRepo struct {
	mu    sync.Mutex
	docs  []*model.Alarm
	Err   error
	bcast broadcaster[*model.Alarm]
}

func (r *FakeAlarmRepo) snapshot(userID string) []*model.Alarm {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Alarm
	for _, a := range r.docs {
		if a.UserID == userID {
			copied := *a
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

func (r *FakeAlarmRepo) CreateAlarm(ctx context.Context, alarm *model.Alarm) error {
	if r.Err != nil {
		return r.Err
	}
	copied := *alarm
	r.mu.Lock()
	r.docs = append(r.docs, &copied)
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeAlarmRepo) GetUserAlarms(ctx context.Context, userID string) ([]*model.Alarm, error) {
	return r.snapshot(userID), nil
}

func (r *FakeAlarmRepo) SetEnabled(ctx context.Context, userID, alarmID string, enabled bool) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	for _, a := range r.docs {
		if a.UserID == userID && a.AlarmID == alarmID {
			a.Enabled = enabled
		}
	}
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeAlarmRepo) UpdateAlarm(ctx context.Context, userID, alarmID string, update *dto.AlarmUpdate) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	for _, a := range r.docs {
		if a.UserID != userID || a.AlarmID != alarmID {
			continue
		}
		if update.Time != nil {
			a.Time = *update.Time
		}
		if update.Label != nil {
			a.Label = *update.Label
		}
		if update.Days != nil {
			a.Days = *update.Days
		}
	}
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeAlarmRepo) DeleteAlarm(ctx context.Context, userID, alarmID string) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	kept := r.docs[:0]
	for _, a := range r.docs {
		if !(a.UserID == userID && a.AlarmID == alarmID) {
			kept = append(kept, a)
		}
	}
	r.docs = kept
	r.mu.Unlock()
	r.bcast.notify(r.snapshot)
	return nil
}

func (r *FakeAlarmRepo) WatchUserAlarms(ctx context.Context, userID string, fn func([]*model.Alarm)) (func(), error) {
	return r.bcast.watch(userID, fn, r.snapshot), nil
}

// --- profiles ---

type FakeProfileRepo struct {
	mu         sync.Mutex
	profiles   map[string]*model.UserProfile
	dashboards map[string]*model.DashboardConfig
	Err        error
}

func NewFakeProfileRepo() *FakeProfileRepo {
	return &FakeProfileRepo{
		profiles:   make(map[string]*model.UserProfile),
		dashboards: make(map[string]*model.DashboardConfig),
	}
}

func (r *FakeProfileRepo) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *FakeProfileRepo) SetProfile(ctx context.Context, userID string, profile *model.UserProfile) error {
	if r.Err != nil {
		return r.Err
	}
	copied := *profile
	r.mu.Lock()
	r.profiles[userID] = &copied
	r.mu.Unlock()
	return nil
}

func (r *FakeProfileRepo) UpdateProfile(ctx context.Context, userID string, update *dto.ProfileUpdate) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		p = &model.UserProfile{}
		r.profiles[userID] = p
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.PhotoURL != nil {
		p.PhotoURL = *update.PhotoURL
	}
	if update.About != nil {
		p.About = *update.About
	}
	return nil
}

func (r *FakeProfileRepo) GetDashboard(ctx context.Context, userID string) (*model.DashboardConfig, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dashboards[userID]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (r *FakeProfileRepo) SetDashboard(ctx context.Context, userID string, config *model.DashboardConfig) error {
	if r.Err != nil {
		return r.Err
	}
	copied := *config
	r.mu.Lock()
	r.dashboards[userID] = &copied
	r.mu.Unlock()
	return nil
}
