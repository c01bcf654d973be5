package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"zen/config"
)

func TestEnvFromContext(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env == nil || env.start.IsZero() {
		t.Fatalf("EnvFromContext() = %+v, want started environment", env)
	}

	defer func() {
		if recover() == nil {
			t.Error("EnvFromContext() without environment did not panic")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_PrepareEngine(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	env := &LocalEnv{
		Cfg:   cfg,
		Log:   zaptest.NewLogger(t),
		start: time.Now(),
	}

	if err := env.PrepareEngine(); err != nil {
		t.Fatalf("PrepareEngine() error = %v", err)
	}
	if env.Engine == nil || env.Session == nil {
		t.Fatal("PrepareEngine() left engine or session unset")
	}

	engine, session := env.Engine, env.Session
	if err := env.PrepareEngine(); err != nil {
		t.Fatalf("second PrepareEngine() error = %v", err)
	}
	if env.Engine != engine || env.Session != session {
		t.Error("second PrepareEngine() replaced prepared engine")
	}

	out, err := env.Engine.Expand(env.Session, "b", "html", nil)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if want := "<b>" + cfg.Output.Caret + "</b>"; out != want {
		t.Errorf("Expand(b) = %q, want %q", out, want)
	}
}

func TestLocalEnv_PrepareEngine_BadResources(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Resources.Path = filepath.Join(t.TempDir(), "missing.yaml")
	env := &LocalEnv{Cfg: cfg, Log: zaptest.NewLogger(t), start: time.Now()}

	if err := env.PrepareEngine(); err == nil {
		t.Error("PrepareEngine() with missing resources file succeeded")
	}
	if env.Engine != nil {
		t.Error("PrepareEngine() set engine on failure")
	}
}
