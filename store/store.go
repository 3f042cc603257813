// Package store holds the per-identity state container and the session
// gate that synchronizes it with the remote document collections. The
// container is the single source of truth for reads; mutations write
// through to the collections and the entity lists are refreshed only by
// the next live query snapshot, never by the mutation itself.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/localstore"
	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/utils"
)

// TodoRepository is the todos collection as the container sees it.
type TodoRepository interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	GetUserTodos(ctx context.Context, userID string) ([]*model.Todo, error)
	SetCompleted(ctx context.Context, userID, todoID string, completed bool) error
	DeleteTodo(ctx context.Context, userID, todoID string) error
	WatchUserTodos(ctx context.Context, userID string, fn func([]*model.Todo)) (func(), error)
}

type EventRepository interface {
	CreateEvent(ctx context.Context, event *model.CalendarEvent) error
	GetUserEvents(ctx context.Context, userID string) ([]*model.CalendarEvent, error)
	UpdateEvent(ctx context.Context, userID, eventID string, update *dto.EventUpdate) error
	DeleteEvent(ctx context.Context, userID, eventID string) error
	WatchUserEvents(ctx context.Context, userID string, fn func([]*model.CalendarEvent)) (func(), error)
}

type NoteRepository interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetUserNotes(ctx context.Context, userID string) ([]*model.Note, error)
	UpdateNote(ctx context.Context, userID, noteID string, update *dto.NoteUpdate) error
	DeleteNote(ctx context.Context, userID, noteID string) error
	WatchUserNotes(ctx context.Context, userID string, fn func([]*model.Note)) (func(), error)
}

type AlarmRepository interface {
	CreateAlarm(ctx context.Context, alarm *model.Alarm) error
	GetUserAlarms(ctx context.Context, userID string) ([]*model.Alarm, error)
	SetEnabled(ctx context.Context, userID, alarmID string, enabled bool) error
	UpdateAlarm(ctx context.Context, userID, alarmID string, update *dto.AlarmUpdate) error
	DeleteAlarm(ctx context.Context, userID, alarmID string) error
	WatchUserAlarms(ctx context.Context, userID string, fn func([]*model.Alarm)) (func(), error)
}

type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	SetProfile(ctx context.Context, userID string, profile *model.UserProfile) error
	UpdateProfile(ctx context.Context, userID string, update *dto.ProfileUpdate) error
	GetDashboard(ctx context.Context, userID string) (*model.DashboardConfig, error)
	SetDashboard(ctx context.Context, userID string, config *model.DashboardConfig) error
}

// Collections bundles the remote document collections the container
// persists through.
type Collections struct {
	Todos    TodoRepository
	Events   EventRepository
	Notes    NoteRepository
	Alarms   AlarmRepository
	Profiles ProfileRepository
}

// Store is the in-memory state container for one signed-in identity.
type Store struct {
	userID string
	repos  Collections
	local  *localstore.Store

	mu        sync.RWMutex
	todos     []*model.Todo
	events    []*model.CalendarEvent
	notes     []*model.Note
	alarms    []*model.Alarm
	profile   model.UserProfile
	dashboard model.DashboardConfig
	timer     model.TimerState
	closed    bool

	cancels []func()

	tickInterval time.Duration
	tickerCancel context.CancelFunc
}

func newStore(userID string, repos Collections, local *localstore.Store, tickInterval time.Duration) *Store {
	return &Store{
		userID:       userID,
		repos:        repos,
		local:        local,
		dashboard:    model.DefaultDashboardConfig(),
		tickInterval: tickInterval,
	}
}

func (s *Store) UserID() string {
	return s.userID
}

// --- read access (copies, never the backing slices) ---

func (s *Store) Todos() []*model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Todo(nil), s.todos...)
}

func (s *Store) Events() []*model.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.CalendarEvent(nil), s.events...)
}

func (s *Store) Notes() []*model.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Note(nil), s.notes...)
}

func (s *Store) Alarms() []*model.Alarm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Alarm(nil), s.alarms...)
}

func (s *Store) Profile() model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Store) DashboardConfig() model.DashboardConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard
}

func (s *Store) Timer() model.TimerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timer
}

// ExportData is the point-in-time dump served by the export endpoint.
type ExportData struct {
	Todos  []dto.TodoResponse  `json:"todos"`
	Events []dto.EventResponse `json:"events"`
	Notes  []dto.NoteResponse  `json:"notes"`
}

func (s *Store) Export() ExportData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ExportData{
		Todos:  dto.ToTodoResponses(s.todos),
		Events: dto.ToEventResponses(s.events),
		Notes:  dto.ToNoteResponses(s.notes),
	}
}

// --- snapshot application (live query callbacks) ---

func (s *Store) applyTodos(todos []*model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.todos = todos
	utils.TrackSnapshotApplied("todos")
}

func (s *Store) applyEvents(events []*model.CalendarEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.events = events
	utils.TrackSnapshotApplied("events")
}

func (s *Store) applyNotes(notes []*model.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.notes = notes
	utils.TrackSnapshotApplied("notes")
}

func (s *Store) applyAlarms(alarms []*model.Alarm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.alarms = alarms
	utils.TrackSnapshotApplied("alarms")
}

// --- todo mutations ---

// AddTodo persists a new todo. The visible list updates when the next
// snapshot arrives, not here.
func (s *Store) AddTodo(ctx context.Context, text string) error {
	utils.TrackStoreMutation("todo", "add")
	todo := &model.Todo{
		TodoID:    utils.NewID(),
		UserID:    s.userID,
		Text:      text,
		Completed: false,
		CreatedAt: time.Now(),
	}
	return s.repos.Todos.CreateTodo(ctx, todo)
}

// ToggleTodo flips the completed flag. Unknown ids are a silent no-op.
func (s *Store) ToggleTodo(ctx context.Context, todoID string) error {
	s.mu.RLock()
	var current *model.Todo
	for _, todo := range s.todos {
		if todo.TodoID == todoID {
			current = todo
			break
		}
	}
	s.mu.RUnlock()

	if current == nil {
		return nil
	}

	utils.TrackStoreMutation("todo", "toggle")
	return s.repos.Todos.SetCompleted(ctx, s.userID, todoID, !current.Completed)
}

// DeleteTodo removes a todo; deleting an absent id leaves state unchanged.
func (s *Store) DeleteTodo(ctx context.Context, todoID string) error {
	utils.TrackStoreMutation("todo", "delete")
	return s.repos.Todos.DeleteTodo(ctx, s.userID, todoID)
}

// --- event mutations ---

func (s *Store) AddEvent(ctx context.Context, req *dto.CreateEventRequest) error {
	utils.TrackStoreMutation("event", "add")
	event := &model.CalendarEvent{
		EventID:     utils.NewID(),
		UserID:      s.userID,
		Title:       req.Title,
		Date:        req.Date,
		Time:        req.Time,
		Description: req.Description,
	}
	return s.repos.Events.CreateEvent(ctx, event)
}

func (s *Store) UpdateEvent(ctx context.Context, eventID string, update *dto.EventUpdate) error {
	if !s.hasEvent(eventID) {
		return nil
	}
	utils.TrackStoreMutation("event", "update")
	return s.repos.Events.UpdateEvent(ctx, s.userID, eventID, update)
}

func (s *Store) DeleteEvent(ctx context.Context, eventID string) error {
	utils.TrackStoreMutation("event", "delete")
	return s.repos.Events.DeleteEvent(ctx, s.userID, eventID)
}

func (s *Store) hasEvent(eventID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, event := range s.events {
		if event.EventID == eventID {
			return true
		}
	}
	return false
}

// --- note mutations ---

func (s *Store) AddNote(ctx context.Context, req *dto.CreateNoteRequest) error {
	utils.TrackStoreMutation("note", "add")
	note := &model.Note{
		NoteID:    utils.NewID(),
		UserID:    s.userID,
		Title:     req.Title,
		Content:   req.Content,
		UpdatedAt: time.Now(),
	}
	return s.repos.Notes.CreateNote(ctx, note)
}

func (s *Store) UpdateNote(ctx context.Context, noteID string, update *dto.NoteUpdate) error {
	if !s.hasNote(noteID) {
		return nil
	}
	utils.TrackStoreMutation("note", "update")
	return s.repos.Notes.UpdateNote(ctx, s.userID, noteID, update)
}

func (s *Store) DeleteNote(ctx context.Context, noteID string) error {
	utils.TrackStoreMutation("note", "delete")
	return s.repos.Notes.DeleteNote(ctx, s.userID, noteID)
}

func (s *Store) hasNote(noteID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, note := range s.notes {
		if note.NoteID == noteID {
			return true
		}
	}
	return false
}

// --- alarm mutations ---

func (s *Store) AddAlarm(ctx context.Context, req *dto.CreateAlarmRequest) error {
	utils.TrackStoreMutation("alarm", "add")
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	days := req.Days
	if days == nil {
		days = []int{}
	}
	alarm := &model.Alarm{
		AlarmID: utils.NewID(),
		UserID:  s.userID,
		Time:    req.Time,
		Label:   req.Label,
		Enabled: enabled,
		Days:    days,
	}
	return s.repos.Alarms.CreateAlarm(ctx, alarm)
}

// ToggleAlarm flips the enabled flag. Unknown ids are a silent no-op.
func (s *Store) ToggleAlarm(ctx context.Context, alarmID string) error {
	s.mu.RLock()
	var current *model.Alarm
	for _, alarm := range s.alarms {
		if alarm.AlarmID == alarmID {
			current = alarm
			break
		}
	}
	s.mu.RUnlock()

	if current == nil {
		return nil
	}

	utils.TrackStoreMutation("alarm", "toggle")
	return s.repos.Alarms.SetEnabled(ctx, s.userID, alarmID, !current.Enabled)
}

func (s *Store) UpdateAlarm(ctx context.Context, alarmID string, update *dto.AlarmUpdate) error {
	utils.TrackStoreMutation("alarm", "update")
	return s.repos.Alarms.UpdateAlarm(ctx, s.userID, alarmID, update)
}

func (s *Store) DeleteAlarm(ctx context.Context, alarmID string) error {
	utils.TrackStoreMutation("alarm", "delete")
	return s.repos.Alarms.DeleteAlarm(ctx, s.userID, alarmID)
}

// --- singleton mutations ---

// UpdateProfile shallow-merges into the profile singleton. Unlike entity
// lists the merged value is visible immediately.
func (s *Store) UpdateProfile(ctx context.Context, update *dto.ProfileUpdate) error {
	utils.TrackStoreMutation("profile", "update")
	if err := s.repos.Profiles.UpdateProfile(ctx, s.userID, update); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if update.Name != nil {
		s.profile.Name = *update.Name
	}
	if update.PhotoURL != nil {
		s.profile.PhotoURL = *update.PhotoURL
	}
	if update.About != nil {
		s.profile.About = *update.About
	}
	return nil
}

// SetDashboardConfig replaces the dashboard singleton.
func (s *Store) SetDashboardConfig(ctx context.Context, config model.DashboardConfig) error {
	utils.TrackStoreMutation("dashboard", "set")
	if err := s.repos.Profiles.SetDashboard(ctx, s.userID, &config); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboard = config
	return nil
}

// close cancels the live query subscriptions and resets the four entity
// lists. Profile, timer and dashboard config keep their last values. A
// snapshot racing with close is discarded.
func (s *Store) close() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.closed = true
	s.todos = nil
	s.events = nil
	s.notes = nil
	s.alarms = nil
	tickerCancel := s.tickerCancel
	s.tickerCancel = nil
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	if tickerCancel != nil {
		tickerCancel()
	}
}
