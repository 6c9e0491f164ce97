package habitstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/notifier"
	"github.com/julianstephens/habitlit/internal/persistence"
	"github.com/julianstephens/habitlit/internal/reminders"
	"github.com/julianstephens/habitlit/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

const today = "2024-06-10"

// recordingReminders wraps a real scheduler and counts check-in cancellations.
type recordingReminders struct {
	*reminders.Scheduler

	mu             sync.Mutex
	cancelCheckIns int
	reconciles     int
}

func (r *recordingReminders) CancelCheckIn(ctx context.Context) {
	r.mu.Lock()
	r.cancelCheckIns++
	r.mu.Unlock()
	r.Scheduler.CancelCheckIn(ctx)
}

func (r *recordingReminders) Reconcile(ctx context.Context, state models.State, day string) {
	r.mu.Lock()
	r.reconciles++
	r.mu.Unlock()
	r.Scheduler.Reconcile(ctx, state, day)
}

func (r *recordingReminders) counts() (cancels, reconciles int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelCheckIns, r.reconciles
}

type harness struct {
	store     *Store
	kv        *storage.MemoryStore
	registry  *notifier.Registry
	reminders *recordingReminders
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return openHarness(t, storage.NewMemoryStore())
}

func openHarness(t *testing.T, kv *storage.MemoryStore) *harness {
	t.Helper()

	now := func() time.Time { return testNow }
	registry := notifier.NewRegistry(kv, nil)
	rec := &recordingReminders{Scheduler: reminders.NewScheduler(registry, time.UTC)}

	ids := 0
	s, err := Open(context.Background(), Options{
		Gateway:   persistence.NewGateway(kv, time.UTC, now),
		Reminders: rec,
		Location:  time.UTC,
		Now:       now,
		NewID: func() string {
			ids++
			return fmt.Sprintf("habit-%d", ids)
		},
	})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(s.Close)

	return &harness{store: s, kv: kv, registry: registry, reminders: rec}
}

func (h *harness) scheduledIDs(t *testing.T) map[string]notifier.Reminder {
	t.Helper()
	h.store.Flush()
	scheduled, err := h.registry.Scheduled()
	if err != nil {
		t.Fatalf("Scheduled() failed: %v", err)
	}
	out := make(map[string]notifier.Reminder)
	for _, r := range scheduled {
		out[r.ID] = r
	}
	return out
}

func (h *harness) hasCheckIn(t *testing.T) bool {
	_, ok := h.scheduledIDs(t)[constants.CheckInIdentifier]
	return ok
}

func datesBack(n int) []string {
	day, _ := time.Parse(constants.DateFormat, today)
	dates := make([]string, 0, n)
	for i := 0; i < n; i++ {
		dates = append(dates, day.AddDate(0, 0, -i).Format(constants.DateFormat))
	}
	return dates
}

func TestAddHabit_Defaults(t *testing.T) {
	h := newHarness(t)

	habit := h.store.AddHabit(models.HabitDraft{Title: "Read"})

	want := models.Habit{
		ID:             "habit-1",
		Title:          "Read",
		Frequency:      models.FrequencyDaily,
		TargetDays:     []models.Weekday{},
		Icon:           "fitness",
		Color:          "#007AFF",
		StartDate:      today,
		CompletedDates: []string{},
	}
	if diff := cmp.Diff(want, habit); diff != "" {
		t.Errorf("new habit mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]models.Habit{want}, h.store.Habits()); diff != "" {
		t.Errorf("collection mismatch (-want +got):\n%s", diff)
	}
}

func TestAddHabit_DraftOverlay(t *testing.T) {
	h := newHarness(t)

	habit := h.store.AddHabit(models.HabitDraft{
		Title:      "Swim",
		Icon:       "water",
		Color:      "#34C759",
		Frequency:  models.FrequencyCustom,
		TargetDays: []models.Weekday{models.Tuesday, models.Saturday},
	})
	if habit.Icon != "water" || habit.Color != "#34C759" || habit.Frequency != models.FrequencyCustom {
		t.Errorf("draft fields not applied: %+v", habit)
	}
	if diff := cmp.Diff([]models.Weekday{models.Tuesday, models.Saturday}, habit.TargetDays); diff != "" {
		t.Errorf("target days mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateHabit(t *testing.T) {
	h := newHarness(t)
	habit := h.store.AddHabit(models.HabitDraft{Title: "Read"})
	h.store.ToggleCompletion(habit.ID, today)

	title := "Read more"
	h.store.UpdateHabit(habit.ID, models.HabitPatch{Title: &title})

	got, ok := h.store.Habit(habit.ID)
	if !ok {
		t.Fatal("habit missing after update")
	}
	if got.Title != "Read more" {
		t.Errorf("expected updated title, got %q", got.Title)
	}
	if got.ID != habit.ID || got.Streak != 1 || !got.IsCompletedOn(today) {
		t.Errorf("update touched identity or history: %+v", got)
	}
}

func TestUnknownIDIsNoOp(t *testing.T) {
	h := newHarness(t)
	h.store.AddHabit(models.HabitDraft{Title: "Read"})
	before := h.store.Snapshot()

	var notified int
	unsubscribe := h.store.Subscribe(func(models.State) { notified++ })
	defer unsubscribe()

	title := "x"
	h.store.UpdateHabit("missing", models.HabitPatch{Title: &title})
	h.store.DeleteHabit("missing")
	h.store.ToggleCompletion("missing", today)

	if diff := cmp.Diff(before, h.store.Snapshot()); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
	if notified != 0 {
		t.Errorf("no-op operations should not notify observers, got %d", notified)
	}
	if _, ok := h.store.Habit("missing"); ok {
		t.Error("Habit(missing) should report absence")
	}
}

func TestDeleteHabit(t *testing.T) {
	h := newHarness(t)
	a := h.store.AddHabit(models.HabitDraft{Title: "A"})
	b := h.store.AddHabit(models.HabitDraft{Title: "B"})
	c := h.store.AddHabit(models.HabitDraft{Title: "C"})

	h.store.DeleteHabit(b.ID)

	habits := h.store.Habits()
	if len(habits) != 2 || habits[0].ID != a.ID || habits[1].ID != c.ID {
		t.Errorf("unexpected collection after delete: %+v", habits)
	}
}

func TestToggleCompletion_Involution(t *testing.T) {
	h := newHarness(t)
	habit := h.store.AddHabit(models.HabitDraft{Title: "Read"})

	h.store.ToggleCompletion(habit.ID, today)
	on, _ := h.store.Habit(habit.ID)
	if on.Streak != 1 || on.LongestStreak != 1 || !on.IsCompletedOn(today) {
		t.Fatalf("unexpected habit after first toggle: %+v", on)
	}

	h.store.ToggleCompletion(habit.ID, today)
	off, _ := h.store.Habit(habit.ID)
	if len(off.CompletedDates) != 0 || off.Streak != 0 {
		t.Errorf("second toggle should restore history and streak: %+v", off)
	}
	if off.LongestStreak != 1 {
		t.Errorf("longest streak must not roll back, got %d", off.LongestStreak)
	}
}

func TestToggleCompletion_LongestIsMonotonic(t *testing.T) {
	kv := storage.NewMemoryStore()
	seed := []models.Habit{{
		ID:             "run",
		Title:          "Run",
		Frequency:      models.FrequencyDaily,
		TargetDays:     []models.Weekday{},
		CompletedDates: datesBack(5),
		Streak:         5,
		LongestStreak:  5,
	}}
	g := persistence.NewGateway(kv, time.UTC, func() time.Time { return testNow })
	if err := g.Save(context.Background(), models.State{Habits: seed, Settings: g.Defaults().Settings}); err != nil {
		t.Fatal(err)
	}

	h := openHarness(t, kv)
	h.store.ToggleCompletion("run", today)

	got, _ := h.store.Habit("run")
	if got.Streak != 4 {
		t.Errorf("expected streak 4 after toggling off today, got %d", got.Streak)
	}
	if got.LongestStreak != 5 {
		t.Errorf("expected longest streak to stay 5, got %d", got.LongestStreak)
	}
}

func TestToggleCompletion_InvariantHolds(t *testing.T) {
	h := newHarness(t)
	habit := h.store.AddHabit(models.HabitDraft{Title: "Read"})

	for _, day := range []string{"2024-06-08", "2024-06-09", today, "2024-06-09", today, "2024-06-09"} {
		h.store.ToggleCompletion(habit.ID, day)
		got, _ := h.store.Habit(habit.ID)
		if got.LongestStreak < got.Streak {
			t.Fatalf("after toggling %s: longest %d < streak %d", day, got.LongestStreak, got.Streak)
		}
	}
}

func TestPersistsAfterCommit(t *testing.T) {
	kv := storage.NewMemoryStore()
	h := openHarness(t, kv)
	habit := h.store.AddHabit(models.HabitDraft{Title: "Read"})
	h.store.ToggleToday(habit.ID)
	h.store.Flush()

	reloaded := persistence.NewGateway(kv, time.UTC, func() time.Time { return testNow }).Load(context.Background())
	if diff := cmp.Diff(h.store.Habits(), reloaded.Habits); diff != "" {
		t.Errorf("persisted habits mismatch (-memory +durable):\n%s", diff)
	}
}

func TestReminders_EmptyCollectionSchedulesNothing(t *testing.T) {
	h := newHarness(t)

	if scheduled := h.scheduledIDs(t); len(scheduled) != 0 {
		t.Errorf("expected nothing scheduled for an empty collection, got %+v", scheduled)
	}

	h.store.AddHabit(models.HabitDraft{Title: "Read"})

	scheduled := h.scheduledIDs(t)
	if len(scheduled) != 2 {
		t.Fatalf("expected daily reminder and check-in, got %+v", scheduled)
	}
	var daily notifier.Reminder
	for id, r := range scheduled {
		if id != constants.CheckInIdentifier {
			daily = r
		}
	}
	if daily.Content.Title != "Habit Reminder" || daily.Trigger != (notifier.Trigger{Hour: 7, Minute: 0}) {
		t.Errorf("unexpected daily reminder: %+v", daily)
	}
}

func TestReminders_CheckInCancelledWhenAllComplete(t *testing.T) {
	h := newHarness(t)
	a := h.store.AddHabit(models.HabitDraft{Title: "A"})
	b := h.store.AddHabit(models.HabitDraft{Title: "B"})

	h.store.ToggleCompletion(a.ID, today)
	if !h.hasCheckIn(t) {
		t.Fatal("check-in should stay while a habit is incomplete")
	}

	h.store.ToggleCompletion(b.ID, today)
	if h.hasCheckIn(t) {
		t.Error("check-in should be cancelled once every habit is complete")
	}
	if cancels, _ := h.reminders.counts(); cancels != 1 {
		t.Errorf("expected one immediate check-in cancellation, got %d", cancels)
	}

	h.store.AddHabit(models.HabitDraft{Title: "C"})
	if !h.hasCheckIn(t) {
		t.Error("adding an incomplete habit should reschedule the check-in")
	}
}

func TestReminders_DisabledCancelsEverything(t *testing.T) {
	h := newHarness(t)
	h.store.AddHabit(models.HabitDraft{Title: "A"})
	if len(h.scheduledIDs(t)) == 0 {
		t.Fatal("expected reminders before disabling")
	}

	settings := h.store.Settings()
	settings.RemindersEnabled = false
	h.store.UpdateSettings(settings)

	if scheduled := h.scheduledIDs(t); len(scheduled) != 0 {
		t.Errorf("expected no reminders when disabled, got %+v", scheduled)
	}
}

func TestUpdateSettings_ReschedulesDaily(t *testing.T) {
	h := newHarness(t)
	h.store.AddHabit(models.HabitDraft{Title: "A"})

	h.store.UpdateSettings(models.Settings{
		ReminderTime:     time.Date(2024, 6, 10, 18, 30, 0, 0, time.UTC),
		CustomMessage:    "Evening",
		RemindersEnabled: true,
	})

	for id, r := range h.scheduledIDs(t) {
		if id == constants.CheckInIdentifier {
			continue
		}
		if r.Trigger != (notifier.Trigger{Hour: 18, Minute: 30}) || r.Content.Body != "Evening" {
			t.Errorf("daily reminder not updated: %+v", r)
		}
	}
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t)

	var got []int
	unsubscribe := h.store.Subscribe(func(st models.State) {
		got = append(got, len(st.Habits))
	})

	h.store.AddHabit(models.HabitDraft{Title: "A"})
	h.store.AddHabit(models.HabitDraft{Title: "B"})
	unsubscribe()
	h.store.AddHabit(models.HabitDraft{Title: "C"})

	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("observer snapshots mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribe_ObserverCanRead(t *testing.T) {
	h := newHarness(t)

	var titles []string
	h.store.Subscribe(func(models.State) {
		for _, habit := range h.store.Habits() {
			titles = append(titles, habit.Title)
		}
	})
	h.store.AddHabit(models.HabitDraft{Title: "A"})

	if diff := cmp.Diff([]string{"A"}, titles); diff != "" {
		t.Errorf("observer read mismatch (-want +got):\n%s", diff)
	}
}

// blockingGateway holds the first Save until release is closed.
type blockingGateway struct {
	*persistence.Gateway

	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	saves []models.State
}

func (g *blockingGateway) Save(ctx context.Context, state models.State) error {
	g.mu.Lock()
	first := len(g.saves) == 0
	g.saves = append(g.saves, state)
	g.mu.Unlock()

	if first {
		close(g.started)
		<-g.release
	}
	return g.Gateway.Save(ctx, state)
}

func TestEffectsCoalesce(t *testing.T) {
	now := func() time.Time { return testNow }
	g := &blockingGateway{
		Gateway: persistence.NewGateway(storage.NewMemoryStore(), time.UTC, now),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s, err := Open(context.Background(), Options{Gateway: g, Location: time.UTC, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.AddHabit(models.HabitDraft{Title: "A"})
	<-g.started

	// These commit while the first save is in flight and must not block.
	s.AddHabit(models.HabitDraft{Title: "B"})
	s.AddHabit(models.HabitDraft{Title: "C"})
	s.AddHabit(models.HabitDraft{Title: "D"})
	close(g.release)
	s.Flush()

	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.saves) != 2 {
		t.Fatalf("expected pending saves to coalesce into one, got %d saves", len(g.saves))
	}
	if n := len(g.saves[1].Habits); n != 4 {
		t.Errorf("coalesced save should carry the latest snapshot, got %d habits", n)
	}
}

func TestEffectMerge_KeepsCheckInCancel(t *testing.T) {
	e := effect{today: "2024-06-09", cancelCheckIn: true}
	e.merge(effect{today: today, save: true})

	if !e.cancelCheckIn || !e.save || e.today != today {
		t.Errorf("merge lost requested work: %+v", e)
	}
}

// deniedService refuses everything.
type deniedService struct{}

func (deniedService) ScheduleRepeating(context.Context, notifier.Content, notifier.Trigger, string) (string, error) {
	return "", notifier.ErrPermissionDenied
}
func (deniedService) CancelAll(context.Context) error          { return notifier.ErrPermissionDenied }
func (deniedService) CancelByID(context.Context, string) error { return notifier.ErrPermissionDenied }
func (deniedService) RequestPermission(context.Context) error  { return notifier.ErrPermissionDenied }

func TestPermissionDeniedDoesNotAffectData(t *testing.T) {
	now := func() time.Time { return testNow }
	kv := storage.NewMemoryStore()
	svc := deniedService{}
	s, err := Open(context.Background(), Options{
		Gateway:     persistence.NewGateway(kv, time.UTC, now),
		Reminders:   reminders.NewScheduler(svc, time.UTC),
		Permissions: svc,
		Location:    time.UTC,
		Now:         now,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	habit := s.AddHabit(models.HabitDraft{Title: "A"})
	s.ToggleToday(habit.ID)
	s.Flush()

	got, ok := s.Habit(habit.ID)
	if !ok || got.Streak != 1 {
		t.Errorf("data operations should succeed without notification permission: %+v", got)
	}
	if _, err := kv.Get("habits"); err != nil {
		t.Errorf("state should still persist: %v", err)
	}
}

func TestOpen_RequiresGateway(t *testing.T) {
	if _, err := Open(context.Background(), Options{}); err == nil {
		t.Error("expected error without a gateway")
	}
}

func TestClose_DrainsPendingWork(t *testing.T) {
	kv := storage.NewMemoryStore()
	now := func() time.Time { return testNow }
	s, err := Open(context.Background(), Options{Gateway: persistence.NewGateway(kv, time.UTC, now), Location: time.UTC, Now: now})
	if err != nil {
		t.Fatal(err)
	}
	s.AddHabit(models.HabitDraft{Title: "A"})
	s.Close()

	if _, err := kv.Get("habits"); err != nil {
		t.Errorf("Close should run the queued save: %v", err)
	}
	// Mutations after Close still commit in memory
	s.AddHabit(models.HabitDraft{Title: "B"})
	if len(s.Habits()) != 2 {
		t.Errorf("expected 2 habits in memory, got %d", len(s.Habits()))
	}
	s.Close()
}
