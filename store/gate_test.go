package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/localstore"
	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/store"
	"github.com/kriswind/everything-app/store/storetest"
)

func setupGate(t *testing.T) (*storetest.Fixture, *store.Gate, *localstore.Store) {
	t.Helper()

	fixture := storetest.NewFixture()
	local, err := localstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create local store: %v", err)
	}

	gate := store.NewGate(context.Background(), fixture.Collections(), local)
	gate.SetTickInterval(5 * time.Millisecond)
	return fixture, gate, local
}

func TestFirstSignInSeedsProfile(t *testing.T) {
	fixture, gate, _ := setupGate(t)

	st, err := gate.SignIn(context.Background(), store.Identity{
		UserID:      "user-1",
		DisplayName: "Ada",
	})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	defer gate.SignOut("user-1")

	profile := st.Profile()
	if profile.Name != "Ada" {
		t.Errorf("Expected seeded name Ada, got %q", profile.Name)
	}
	if profile.About != model.DefaultAbout {
		t.Errorf("Expected default about text, got %q", profile.About)
	}

	// The synthesized profile must be written back, not just held in memory.
	persisted, err := fixture.Profiles.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if persisted == nil || persisted.Name != "Ada" {
		t.Errorf("Seeded profile not persisted, got %+v", persisted)
	}
}

func TestSignInWithoutDisplayNameFallsBack(t *testing.T) {
	_, gate, _ := setupGate(t)

	st, err := gate.SignIn(context.Background(), store.Identity{UserID: "user-1"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	defer gate.SignOut("user-1")

	if got := st.Profile().Name; got != "User" {
		t.Errorf("Expected fallback name User, got %q", got)
	}
}

func TestSignInKeepsExistingProfile(t *testing.T) {
	fixture, gate, _ := setupGate(t)

	existing := model.UserProfile{Name: "Grace", About: "Compilers"}
	if err := fixture.Profiles.SetProfile(context.Background(), "user-1", &existing); err != nil {
		t.Fatalf("SetProfile failed: %v", err)
	}

	st, err := gate.SignIn(context.Background(), store.Identity{
		UserID:      "user-1",
		DisplayName: "Ada",
	})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	defer gate.SignOut("user-1")

	profile := st.Profile()
	if profile.Name != "Grace" || profile.About != "Compilers" {
		t.Errorf("Existing profile must win over the identity, got %+v", profile)
	}
}

func TestDashboardDefaultWhenAbsent(t *testing.T) {
	_, gate, _ := setupGate(t)

	st, err := gate.SignIn(context.Background(), store.Identity{UserID: "user-1", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	defer gate.SignOut("user-1")

	want := model.DefaultDashboardConfig()
	got := st.DashboardConfig()
	if len(got.Widgets) != len(want.Widgets) {
		t.Fatalf("Expected default widgets %v, got %v", want.Widgets, got.Widgets)
	}
	for i := range want.Widgets {
		if got.Widgets[i] != want.Widgets[i] {
			t.Errorf("Widget %d: expected %q, got %q", i, want.Widgets[i], got.Widgets[i])
		}
	}
}

func TestDashboardKeptWhenPresent(t *testing.T) {
	fixture, gate, _ := setupGate(t)

	saved := model.DashboardConfig{Widgets: []string{"alarms"}}
	if err := fixture.Profiles.SetDashboard(context.Background(), "user-1", &saved); err != nil {
		t.Fatalf("SetDashboard failed: %v", err)
	}

	st, err := gate.SignIn(context.Background(), store.Identity{UserID: "user-1", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	defer gate.SignOut("user-1")

	got := st.DashboardConfig()
	if len(got.Widgets) != 1 || got.Widgets[0] != "alarms" {
		t.Errorf("Expected saved dashboard, got %v", got.Widgets)
	}
}

func TestSignInTwiceReturnsSameStore(t *testing.T) {
	_, gate, _ := setupGate(t)

	first, err := gate.SignIn(context.Background(), store.Identity{UserID: "user-1", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	defer gate.SignOut("user-1")

	second, err := gate.SignIn(context.Background(), store.Identity{UserID: "user-1", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("Second SignIn failed: %v", err)
	}
	if first != second {
		t.Error("Signing in an active identity must return the existing container")
	}
}

func TestSignOutClearsEntityListsKeepsSingletons(t *testing.T) {
	fixture, gate, local := setupGate(t)

	st, err := gate.SignIn(context.Background(), store.Identity{UserID: "user-1", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	if err := st.AddTodo(context.Background(), "Buy milk"); err != nil {
		t.Fatalf("AddTodo failed: %v", err)
	}
	seconds := 90
	inactive := false
	st.SetTimer(dto.TimerUpdate{TimeLeft: &seconds, Duration: &seconds, IsActive: &inactive})

	gate.SignOut("user-1")

	if len(st.Todos()) != 0 {
		t.Error("Sign-out must clear the todo list")
	}
	if st.Profile().Name != "Ada" {
		t.Error("Sign-out must keep the profile")
	}
	if st.Timer().Duration != 90 {
		t.Error("Sign-out must keep the timer")
	}
	if _, ok := gate.Store("user-1"); ok {
		t.Error("Signed-out identity must not resolve a container")
	}

	// A snapshot racing with sign-out is discarded.
	fixture.Todos.CreateTodo(context.Background(), &model.Todo{
		TodoID: "t2", UserID: "user-1", Text: "late",
	})
	if len(st.Todos()) != 0 {
		t.Error("Closed container must discard late snapshots")
	}

	// The local blob survives for the next login.
	if saved := local.LoadTimer("user-1"); saved.Duration != 90 {
		t.Errorf("Timer blob should survive sign-out, got %+v", saved)
	}
}

func TestRestoreUsesIdentityLookup(t *testing.T) {
	_, gate, _ := setupGate(t)

	gate.SetIdentityLookup(func(ctx context.Context, userID string) (store.Identity, error) {
		return store.Identity{UserID: userID, DisplayName: "Ada"}, nil
	})

	st, err := gate.Restore(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	defer gate.SignOut("user-1")

	if st.Profile().Name != "Ada" {
		t.Errorf("Restore should run the full sign-in protocol, got profile %+v", st.Profile())
	}
}
