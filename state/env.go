// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zen/config"
	"zen/expand"
	"zen/filters"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// prepared lazily by commands working with abbreviations
	Engine  *expand.Engine
	Session *expand.Session

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// PrepareEngine loads resources and creates expansion engine together with
// a fresh session. It is safe to call more than once.
func (e *LocalEnv) PrepareEngine() error {
	if e.Engine != nil {
		return nil
	}
	res, err := expand.LoadResources(e.Cfg, e.Log)
	if err != nil {
		return err
	}
	e.Engine = expand.NewEngine(e.Cfg, res, filters.Default(), e.Log)
	e.Session = expand.NewSession()
	e.Log.Debug("Engine prepared", zap.Stringer("session", e.Session.ID), zap.Strings("syntaxes", res.Syntaxes()))
	return nil
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
