package battle

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/quorumbot/backend"
	"github.com/kbukum/quorumbot/errors"
	"github.com/kbukum/quorumbot/history"
	"github.com/kbukum/quorumbot/logger"
	"github.com/kbukum/quorumbot/provider"
	"github.com/kbukum/quorumbot/redis"
)

const chatID = int64(-1001)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeSummarizer struct {
	mu        sync.Mutex
	text      string
	err       error
	histories []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, h string, _ backend.Backend) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histories = append(f.histories, h)
	return f.text, f.err
}

type fixture struct {
	m     *Machine
	hist  *history.MemoryStore
	sum   *fakeSummarizer
	clock time.Time
}

func newFixture(t *testing.T, sessions provider.StateStore[Session]) *fixture {
	t.Helper()
	if sessions == nil {
		sessions = provider.NewMemoryState[Session]()
	}
	f := &fixture{hist: history.NewMemoryStore(), sum: &fakeSummarizer{}, clock: t0}
	f.m = New(Config{}, sessions, f.hist, f.sum, backend.Backend{ID: "anthropic/claude-3.5-sonnet", Name: "Claude"}, logger.Nop())
	f.m.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) say(t *testing.T, at time.Duration, author, text string) {
	t.Helper()
	rec := history.ChatRecord{ChatID: chatID, AuthorName: author, Text: text, CreatedAt: t0.Add(at)}
	if err := f.hist.Append(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
}

func cmd(text string) history.ChatRecord {
	return history.ChatRecord{ChatID: chatID, AuthorID: 1, AuthorName: "alice", Text: text}
}

func TestStartActivates(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	msg, err := f.m.Start(ctx, cmd("start_battle"))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !strings.HasPrefix(msg, "🎮 Battle Mode Started!") || !strings.Contains(msg, "XLN Battle Arena") {
		t.Errorf("announcement = %q", msg)
	}

	s, _ := f.m.Status(ctx, chatID)
	if !s.Active || s.StartedAt == nil || !s.StartedAt.Equal(t0) {
		t.Errorf("session = %+v", s)
	}
	recs, _ := f.hist.LastN(ctx, chatID, 10)
	if len(recs) != 1 || recs[0].Text != "start_battle" || !recs[0].CreatedAt.Equal(t0) {
		t.Errorf("archived = %+v", recs)
	}
}

func TestStartKeepsCommandTimestamp(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	received := t0.Add(-3 * time.Second)

	start := cmd("start_battle")
	start.CreatedAt = received
	if _, err := f.m.Start(ctx, start); err != nil {
		t.Fatalf("Start: %v", err)
	}
	f.say(t, -3*time.Second, "bob", "same instant as the start")

	recs, s, err := f.m.Window(ctx, chatID, 5)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if !s.StartedAt.Equal(received) {
		t.Errorf("StartedAt = %v, want %v", s.StartedAt, received)
	}
	if len(recs) != 2 {
		t.Errorf("window = %+v, want start and message", recs)
	}
}

func TestStartWhileActiveConflicts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, _ = f.m.Start(ctx, cmd("start_battle"))

	f.clock = t0.Add(time.Hour)
	_, err := f.m.Start(ctx, cmd("start_battle"))
	if !hasCode(err, errors.ErrCodeStateConflict) {
		t.Fatalf("err = %v, want STATE_CONFLICT", err)
	}
	if got := errors.UserMessage(err); got != "❌ Error: Battle is already active. Stop the current battle first with `stop_battle` command." {
		t.Errorf("user message = %q", got)
	}

	s, _ := f.m.Status(ctx, chatID)
	if !s.StartedAt.Equal(t0) {
		t.Errorf("StartedAt moved to %v", s.StartedAt)
	}
	if recs, _ := f.hist.LastN(ctx, chatID, 10); len(recs) != 1 {
		t.Errorf("rejected start was archived: %+v", recs)
	}
}

func TestStopWhileIdleConflicts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	out, err := f.m.Stop(ctx, cmd("stop_battle"))
	if out != nil || !hasCode(err, errors.ErrCodeStateConflict) {
		t.Fatalf("Stop() = %v, %v", out, err)
	}
	if got := errors.UserMessage(err); got != "❌ Error: No active battle found. Start a battle first with `start_battle` command." {
		t.Errorf("user message = %q", got)
	}
	if len(f.sum.histories) != 0 {
		t.Error("summarizer should not be called")
	}
	if recs, _ := f.hist.LastN(ctx, chatID, 10); len(recs) != 0 {
		t.Errorf("rejected stop was archived: %+v", recs)
	}
}

func TestStopSummarizesSinceStart(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.say(t, -time.Minute, "carol", "before the battle")
	_, _ = f.m.Start(ctx, cmd("start_battle"))
	f.say(t, time.Minute, "alice", "q1 XLN needs better routing")
	f.say(t, 2*time.Minute, "bob", "q1 I disagree")

	f.sum.text = "Summary.\nParticipant: bob - Score: 650\nParticipant: alice - Score: 800"
	f.clock = t0.Add(10 * time.Minute)

	out, err := f.m.Stop(ctx, cmd("stop_battle"))
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(f.sum.histories) != 1 {
		t.Fatalf("summarizer called %d times, want 1", len(f.sum.histories))
	}
	h := f.sum.histories[0]
	if strings.Contains(h, "before the battle") {
		t.Error("history includes messages from before the start")
	}
	for _, want := range []string{"start_battle", "XLN needs better routing", "I disagree", "stop_battle"} {
		if !strings.Contains(h, want) {
			t.Errorf("history missing %q:\n%s", want, h)
		}
	}

	if out.SummaryErr != nil {
		t.Fatalf("SummaryErr = %v", out.SummaryErr)
	}
	if got, _ := out.Table.Get("alice"); got != 800 {
		t.Errorf("alice = %d", got)
	}
	msg := out.Message()
	if !strings.HasPrefix(msg, StopMessage+"\n\n---\n\n**Battle Summary:**\n\nSummary.") {
		t.Errorf("message head = %q", msg[:80])
	}
	if !strings.Contains(msg, "🥇 **alice**: 800 points") || !strings.HasSuffix(msg, "**🎉 Winner: alice** with 800 points!") {
		t.Errorf("scoreboard missing from message:\n%s", msg)
	}

	if s, _ := f.m.Status(ctx, chatID); s.Active {
		t.Error("battle should be idle after stop")
	}
}

func TestStopSummaryFailureStillIdles(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_, _ = f.m.Start(ctx, cmd("start_battle"))

	f.sum.err = &backend.Error{Backend: "Claude", Status: 500}
	out, err := f.m.Stop(ctx, cmd("stop_battle"))
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !hasCode(out.SummaryErr, errors.ErrCodeSummaryGeneration) {
		t.Errorf("SummaryErr = %v", out.SummaryErr)
	}
	var be *backend.Error
	if !stderrors.As(out.SummaryErr, &be) {
		t.Error("SummaryErr should wrap the backend error")
	}
	if out.Summary != "Error generating battle summary: API returned status 500" {
		t.Errorf("Summary = %q", out.Summary)
	}
	if !strings.Contains(out.Message(), "Unable to extract scores from summary.") {
		t.Error("empty scoreboard expected")
	}
	if s, _ := f.m.Status(ctx, chatID); s.Active {
		t.Error("battle should be idle after a failed summary")
	}
}

func TestWindow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.say(t, time.Duration(i-10)*time.Minute, "carol", "old")
	}

	recs, s, err := f.m.Window(ctx, chatID, 3)
	if err != nil || s.Active || len(recs) != 3 {
		t.Fatalf("idle window = %d records, %+v, %v", len(recs), s, err)
	}

	_, _ = f.m.Start(ctx, cmd("start_battle"))
	f.say(t, time.Minute, "bob", "new")

	recs, s, err = f.m.Window(ctx, chatID, 3)
	if err != nil || !s.Active {
		t.Fatalf("active window: %+v, %v", s, err)
	}
	if len(recs) != 2 || recs[0].Text != "start_battle" || recs[1].Text != "new" {
		t.Errorf("active window = %+v", recs)
	}
}

func TestConcurrentStartsOneWins(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.m.Start(ctx, cmd("start_battle"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		} else if !hasCode(err, errors.ErrCodeStateConflict) {
			t.Errorf("unexpected error %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d starts succeeded, want 1", ok)
	}
}

func TestRedisBackedSessions(t *testing.T) {
	mini := miniredis.RunT(t)
	client, err := redis.New(redis.Config{Enabled: true, Addr: mini.Addr()}, logger.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = client.Close() })

	store := redis.NewTypedStore[Session](client, "quorumbot:battle")
	f := newFixture(t, store)
	ctx := context.Background()

	if _, err := f.m.Start(ctx, cmd("start_battle")); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !mini.Exists("quorumbot:battle:-1001") {
		t.Fatal("session not written to redis")
	}

	// A second machine over the same redis sees the active battle.
	other := newFixture(t, redis.NewTypedStore[Session](client, "quorumbot:battle"))
	if _, err := other.m.Start(ctx, cmd("start_battle")); !hasCode(err, errors.ErrCodeStateConflict) {
		t.Errorf("second instance Start() err = %v", err)
	}
}

func TestLockStripes(t *testing.T) {
	f := newFixture(t, nil)
	unlock := f.m.lock(-1)
	if f.m.stripes[63].TryLock() {
		t.Fatal("chat -1 should hold stripe 63")
	}
	f.m.lock(1)()
	unlock()
	if !f.m.stripes[63].TryLock() {
		t.Fatal("stripe 63 still held after unlock")
	}
	f.m.stripes[63].Unlock()
}

func hasCode(err error, code errors.ErrorCode) bool {
	appErr, ok := errors.AsAppError(err)
	return ok && appErr.Code == code
}
