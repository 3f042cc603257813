package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kriswind/everything-app/localstore"
	"github.com/kriswind/everything-app/model"
)

// Identity is what the identity provider supplies at sign-in. DisplayName
// and PhotoURL are used only to seed the initial profile document.
type Identity struct {
	UserID      string
	DisplayName string
	PhotoURL    string
}

// IdentityLookup resolves an identity for a user that authenticates with a
// still-valid token after the process restarted.
type IdentityLookup func(ctx context.Context, userID string) (Identity, error)

// Gate tracks signed-in identities and runs the sign-in/sign-out protocol:
// seed-or-load the profile singletons, open one live query subscription
// per collection, and tear everything down again on sign-out.
type Gate struct {
	ctx          context.Context
	repos        Collections
	local        *localstore.Store
	lookup       IdentityLookup
	tickInterval time.Duration

	mu     sync.Mutex
	stores map[string]*Store
}

func NewGate(ctx context.Context, repos Collections, local *localstore.Store) *Gate {
	return &Gate{
		ctx:          ctx,
		repos:        repos,
		local:        local,
		tickInterval: time.Second,
		stores:       make(map[string]*Store),
	}
}

// SetIdentityLookup installs the resolver used by Restore.
func (g *Gate) SetIdentityLookup(lookup IdentityLookup) {
	g.lookup = lookup
}

// SetTickInterval overrides the timer tick interval. Tests use this to run
// countdowns faster than wall-clock seconds.
func (g *Gate) SetTickInterval(d time.Duration) {
	g.tickInterval = d
}

// SignIn transitions the identity to signed-in: loads or seeds the profile
// singletons, restores the locally persisted timer and opens the four
// collection subscriptions. Signing in an already active identity returns
// the existing container.
func (g *Gate) SignIn(ctx context.Context, identity Identity) (*Store, error) {
	if identity.UserID == "" {
		return nil, fmt.Errorf("identity has no user ID")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if st, ok := g.stores[identity.UserID]; ok {
		return st, nil
	}

	st := newStore(identity.UserID, g.repos, g.local, g.tickInterval)

	if err := g.initSingletons(ctx, st, identity); err != nil {
		return nil, err
	}

	if err := g.subscribe(st); err != nil {
		st.close()
		return nil, err
	}

	g.stores[identity.UserID] = st
	return st, nil
}

// initSingletons runs the point-reads of the sign-in protocol. A missing
// profile document means first login: synthesize defaults from the
// identity and write them back. This is the one read-then-write race in
// the system; concurrent first logins from two devices are not defended.
func (g *Gate) initSingletons(ctx context.Context, st *Store, identity Identity) error {
	profile, err := g.repos.Profiles.GetProfile(ctx, identity.UserID)
	if err != nil {
		return fmt.Errorf("failed to read profile: %v", err)
	}
	if profile == nil {
		seeded := model.DefaultProfile(identity.DisplayName)
		if identity.PhotoURL != "" {
			seeded.PhotoURL = identity.PhotoURL
		}
		if err := g.repos.Profiles.SetProfile(ctx, identity.UserID, &seeded); err != nil {
			return fmt.Errorf("failed to seed profile: %v", err)
		}
		profile = &seeded
	}

	dashboard, err := g.repos.Profiles.GetDashboard(ctx, identity.UserID)
	if err != nil {
		return fmt.Errorf("failed to read dashboard config: %v", err)
	}

	st.mu.Lock()
	st.profile = *profile
	if dashboard != nil {
		st.dashboard = *dashboard
	}
	if g.local != nil {
		st.timer = g.local.LoadTimer(identity.UserID)
	}
	st.mu.Unlock()

	// An interrupted countdown resumes ticking where it left off.
	st.syncTicker()
	return nil
}

// subscribe opens the four collection subscriptions. They live on the
// gate's context, not the sign-in request's, so they outlast the request.
func (g *Gate) subscribe(st *Store) error {
	cancelTodos, err := g.repos.Todos.WatchUserTodos(g.ctx, st.userID, st.applyTodos)
	if err != nil {
		return fmt.Errorf("failed to subscribe to todos: %v", err)
	}
	st.cancels = append(st.cancels, cancelTodos)

	cancelEvents, err := g.repos.Events.WatchUserEvents(g.ctx, st.userID, st.applyEvents)
	if err != nil {
		return fmt.Errorf("failed to subscribe to events: %v", err)
	}
	st.cancels = append(st.cancels, cancelEvents)

	cancelNotes, err := g.repos.Notes.WatchUserNotes(g.ctx, st.userID, st.applyNotes)
	if err != nil {
		return fmt.Errorf("failed to subscribe to notes: %v", err)
	}
	st.cancels = append(st.cancels, cancelNotes)

	cancelAlarms, err := g.repos.Alarms.WatchUserAlarms(g.ctx, st.userID, st.applyAlarms)
	if err != nil {
		return fmt.Errorf("failed to subscribe to alarms: %v", err)
	}
	st.cancels = append(st.cancels, cancelAlarms)

	return nil
}

// SignOut cancels the subscriptions and empties the entity lists. Profile,
// timer and dashboard config keep their last values for a fast re-login.
// Signing out an unknown identity is a no-op.
func (g *Gate) SignOut(userID string) {
	g.mu.Lock()
	st, ok := g.stores[userID]
	if ok {
		delete(g.stores, userID)
	}
	g.mu.Unlock()

	if ok {
		st.close()
	}
}

// Store returns the container for a signed-in identity.
func (g *Gate) Store(userID string) (*Store, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.stores[userID]
	return st, ok
}

// Restore reactivates a container for a bearer of a valid token whose
// server-side state is gone, resolving the identity through the installed
// lookup.
func (g *Gate) Restore(ctx context.Context, userID string) (*Store, error) {
	if st, ok := g.Store(userID); ok {
		return st, nil
	}
	if g.lookup == nil {
		return nil, fmt.Errorf("no identity lookup configured")
	}
	identity, err := g.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	return g.SignIn(ctx, identity)
}
