package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/kriswind/everything-app/dto"
	"github.com/kriswind/everything-app/model"
	"github.com/kriswind/everything-app/store"
)

func testCtx() context.Context {
	return context.Background()
}

func testIdentity() store.Identity {
	return store.Identity{UserID: "user-1", DisplayName: "Ada"}
}

func activeTimerState(timeLeft, duration int) model.TimerState {
	return model.TimerState{TimeLeft: timeLeft, Duration: duration, IsActive: true}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("Condition not met before timeout")
}

func TestTimerCountsDownToZero(t *testing.T) {
	_, _, st := setupStore(t)

	timer := st.StartTimer(3)
	if !timer.IsActive || timer.TimeLeft != 3 || timer.Duration != 3 {
		t.Fatalf("Unexpected timer after start: %+v", timer)
	}

	// Tick interval is 5ms in tests, so 3 seconds of countdown finish fast.
	waitFor(t, time.Second, func() bool {
		now := st.Timer()
		return now.TimeLeft == 0 && !now.IsActive
	})

	if got := st.Timer(); got.Duration != 3 {
		t.Errorf("Duration should survive the countdown, got %+v", got)
	}
}

func TestStopTimerPausesCountdown(t *testing.T) {
	_, _, st := setupStore(t)

	st.StartTimer(1000)
	waitFor(t, time.Second, func() bool { return st.Timer().TimeLeft < 1000 })

	paused := st.StopTimer()
	if paused.IsActive {
		t.Fatal("StopTimer should deactivate the countdown")
	}

	left := st.Timer().TimeLeft
	time.Sleep(30 * time.Millisecond)
	if st.Timer().TimeLeft != left {
		t.Error("Paused timer must not keep counting down")
	}
}

func TestResetTimerRewindsToDuration(t *testing.T) {
	_, _, st := setupStore(t)

	st.StartTimer(500)
	waitFor(t, time.Second, func() bool { return st.Timer().TimeLeft < 500 })

	reset := st.ResetTimer()
	if reset.IsActive {
		t.Error("Reset timer should be inactive")
	}
	if reset.TimeLeft != 500 {
		t.Errorf("Reset should rewind to the full duration, got %d", reset.TimeLeft)
	}
}

func TestTimerRestoredOnNextSignIn(t *testing.T) {
	_, gate, _ := setupGate(t)

	st, err := gate.SignIn(testCtx(), testIdentity())
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	left := 240
	duration := 300
	inactive := false
	st.SetTimer(dto.TimerUpdate{TimeLeft: &left, Duration: &duration, IsActive: &inactive})

	gate.SignOut("user-1")

	again, err := gate.SignIn(testCtx(), testIdentity())
	if err != nil {
		t.Fatalf("Second SignIn failed: %v", err)
	}
	defer gate.SignOut("user-1")

	timer := again.Timer()
	if timer.TimeLeft != 240 || timer.Duration != 300 || timer.IsActive {
		t.Errorf("Expected persisted timer restored, got %+v", timer)
	}
}

func TestActiveTimerResumesOnSignIn(t *testing.T) {
	_, gate, local := setupGate(t)

	// An interrupted countdown left active in the blob resumes ticking.
	if err := local.SaveTimer("user-1", activeTimerState(3, 10)); err != nil {
		t.Fatalf("SaveTimer failed: %v", err)
	}

	st, err := gate.SignIn(testCtx(), testIdentity())
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	defer gate.SignOut("user-1")

	waitFor(t, time.Second, func() bool {
		now := st.Timer()
		return now.TimeLeft == 0 && !now.IsActive
	})
}
