package service

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// ─────────────────────────────────────────────────────────────
// Autosave — periodic persistence of dirty sessions
// ─────────────────────────────────────────────────────────────

// Autosave periodically saves every open session with unsaved edits.
type Autosave struct {
	templates *TemplateService
	sessions  *SessionManager
	sched     *cron.Cron
}

// NewAutosave creates an Autosave over the given services.
func NewAutosave(templates *TemplateService, sessions *SessionManager) *Autosave {
	return &Autosave{templates: templates, sessions: sessions}
}

// Start schedules the autosave loop. spec is a cron expression; an empty
// spec defaults to every 30 seconds.
func (a *Autosave) Start(ctx context.Context, spec string) error {
	if spec == "" {
		spec = "@every 30s"
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { a.run(ctx) }); err != nil {
		return err
	}
	c.Start()
	a.sched = c
	log.Printf("autosave: scheduled (%s)", spec)
	return nil
}

// Stop halts the scheduler. Running saves finish first.
func (a *Autosave) Stop() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
		a.sched = nil
	}
}

func (a *Autosave) run(ctx context.Context) {
	for _, id := range a.sessions.Dirty() {
		sess, ok := a.sessions.Get(id)
		if !ok {
			continue
		}
		if err := a.templates.SaveSession(ctx, sess); err != nil {
			log.Printf("autosave: save %s failed: %v", id, err)
			continue
		}
		log.Printf("autosave: saved template %s", id)
	}
}
