// Package fixtures holds recorders shared by the command package tests.
package fixtures

import (
	"fmt"

	command "github.com/goliatone/go-command"
)

// RecordingRegistry collects handlers passed to RegisterCommand. A non-nil
// Err is returned instead of recording.
type RecordingRegistry struct {
	Handlers []any
	Err      error
}

func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{}
}

func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.Err != nil {
		return r.Err
	}
	r.Handlers = append(r.Handlers, handler)
	return nil
}

// CronEntry is one recorded schedule.
type CronEntry struct {
	Config  command.HandlerConfig
	Handler any
}

// CronRecorder stands in for a scheduler; entries run only when a test calls Run.
type CronRecorder struct {
	Entries []CronEntry
}

func NewCronRecorder() *CronRecorder {
	return &CronRecorder{}
}

// Registrar returns the go-command cron registration func backed by c.
func (c *CronRecorder) Registrar() func(command.HandlerConfig, any) error {
	return func(cfg command.HandlerConfig, handler any) error {
		c.Entries = append(c.Entries, CronEntry{Config: cfg, Handler: handler})
		return nil
	}
}

// Run fires the i-th recorded schedule once.
func (c *CronRecorder) Run(i int) error {
	if i < 0 || i >= len(c.Entries) {
		return fmt.Errorf("fixtures: no cron entry %d (have %d)", i, len(c.Entries))
	}
	run, ok := c.Entries[i].Handler.(func() error)
	if !ok {
		return fmt.Errorf("fixtures: cron entry %d has handler %T, want func() error", i, c.Entries[i].Handler)
	}
	return run()
}
