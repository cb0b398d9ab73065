package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kbukum/quorumbot/component"
	"github.com/kbukum/quorumbot/config"
	"github.com/kbukum/quorumbot/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	starts   int
	stopped  bool
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(context.Context) error {
	m.starts++
	if m.events != nil {
		*m.events = append(*m.events, "start:"+m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(context.Context) error {
	m.stopped = true
	if m.events != nil {
		*m.events = append(*m.events, "stop:"+m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(context.Context) component.Health { return m.health }

func newTestApp(t *testing.T) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(&testConfig{ServiceConfig: config.ServiceConfig{
		Name: "quorumbot", Version: "1.0.0", Logging: logger.Config{Level: "error"},
	}}, WithGracefulTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func healthy(name string) component.Health {
	return component.Health{Name: name, Status: component.StatusHealthy}
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	if app.Name != "quorumbot" || app.Version != "1.0.0" {
		t.Errorf("name/version = %q/%q", app.Name, app.Version)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("defaults not applied: %+v", app.Cfg.ServiceConfig)
	}
	if app.gracefulTimeout != time.Second {
		t.Errorf("gracefulTimeout = %v", app.gracefulTimeout)
	}
}

func TestNewAppValidation(t *testing.T) {
	_, err := NewApp(&testConfig{ServiceConfig: config.ServiceConfig{Environment: "moon"}})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRunTask_Lifecycle(t *testing.T) {
	app := newTestApp(t)
	var events []string
	db := &mockComponent{name: "db", health: healthy("db"), events: &events}
	if err := app.RegisterComponent(db); err != nil {
		t.Fatal(err)
	}
	if err := app.RegisterComponent(&mockComponent{name: "db"}); err == nil {
		t.Error("expected duplicate registration error")
	}

	late := &mockComponent{name: "poller", health: healthy("poller"), events: &events}
	app.OnConfigure(func(_ context.Context, a *App[*testConfig]) error {
		events = append(events, "configure")
		return a.RegisterComponent(late)
	})
	app.OnReady(func(context.Context) error { events = append(events, "hook:ready"); return nil })
	app.OnStop(func(context.Context) error { events = append(events, "hook:stop"); return nil })

	err := app.RunTask(context.Background(), func(context.Context) error {
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := []string{
		"start:db", "configure", "start:poller", "hook:ready", "task",
		"hook:stop", "stop:poller", "stop:db",
	}
	if len(events) != len(want) {
		t.Fatalf("events = %v\nwant %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v\nwant %v", events, want)
		}
	}
	if db.starts != 1 {
		t.Errorf("db started %d times", db.starts)
	}
}

func TestRunTask_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(app *App[*testConfig])
		task  func(context.Context) error
	}{
		{"task error", func(*App[*testConfig]) {}, func(context.Context) error { return boom }},
		{"configure", func(a *App[*testConfig]) {
			a.OnConfigure(func(context.Context, *App[*testConfig]) error { return boom })
		}, nil},
		{"ready hook", func(a *App[*testConfig]) { a.OnReady(func(context.Context) error { return boom }) }, nil},
		{"stop hook", func(a *App[*testConfig]) { a.OnStop(func(context.Context) error { return boom }) }, nil},
		{"component start", func(a *App[*testConfig]) {
			_ = a.RegisterComponent(&mockComponent{name: "db", startErr: boom})
		}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			tc.setup(app)
			ran := false
			task := tc.task
			if task == nil {
				task = func(context.Context) error { ran = true; return nil }
			}
			err := app.RunTask(context.Background(), task)
			if !errors.Is(err, boom) {
				t.Errorf("err = %v, want boom", err)
			}
			if ran && tc.name != "stop hook" {
				t.Error("task ran despite startup failure")
			}
		})
	}
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t)
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("empty registry: %v", err)
	}
	_ = app.RegisterComponent(&mockComponent{name: "a", health: healthy("a")})
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("healthy: %v", err)
	}
	_ = app.RegisterComponent(&mockComponent{name: "b", health: component.Health{
		Name: "b", Status: component.StatusDegraded, Message: "slow",
	}})
	if err := app.ReadyCheck(context.Background()); err == nil {
		t.Error("expected degraded component to fail the ready check")
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	app := newTestApp(t)
	c := &mockComponent{name: "server", health: healthy("server")}
	_ = app.RegisterComponent(c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !c.stopped {
		t.Error("component not stopped")
	}
}
