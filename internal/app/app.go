// Package app wires storage, services, the document watcher, and the MCP
// surface into a running headless builder. The rendering surface is an
// external collaborator; this process exposes the engine over MCP stdio.
package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"pagebuilder/internal/docwatch"
	"pagebuilder/internal/domain"
	mcpserver "pagebuilder/internal/mcp"
	"pagebuilder/internal/registry"
	"pagebuilder/internal/service"
	"pagebuilder/internal/storage"
)

// Options configures a builder process.
type Options struct {
	DataDir      string // defaults to ~/.local/share/pagebuilder
	AutosaveSpec string // cron expression; empty uses the service default
}

// Run starts the builder as a standalone MCP server on stdin/stdout and
// blocks until interrupted.
func Run(opts Options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dataDir := opts.DataDir
	if dataDir == "" {
		homeDir, _ := os.UserHomeDir()
		dataDir = filepath.Join(homeDir, ".local", "share", "pagebuilder")
	}

	db, err := storage.New(filepath.Join(dataDir, "pagebuilder.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	templateStore := storage.NewTemplateStore(db)
	revisionStore := storage.NewRevisionStore(db)

	reg := registry.Builtin()
	emitter := service.NoopEmitter{}

	templates := service.NewTemplateService(templateStore, revisionStore, emitter)
	sessions := service.NewSessionManager(templateStore, reg)

	// Autosave dirty sessions in the background
	autosave := service.NewAutosave(templates, sessions)
	if err := autosave.Start(ctx, opts.AutosaveSpec); err != nil {
		return err
	}
	defer autosave.Stop()

	// Exported documents: every template is mirrored to a JSON file that can
	// be edited externally; writes flow back in through the session.
	exportDir := filepath.Join(dataDir, "exports")
	watcher, err := startExportWatcher(ctx, exportDir, templates, sessions)
	if err != nil {
		log.Printf("app: export watcher disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	mcpSrv := mcpserver.New(mcpserver.Deps{
		Emitter:   emitter,
		Registry:  reg,
		Templates: templates,
		Sessions:  sessions,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	return mcpSrv.ServeStdio()
}

// startExportWatcher exports every stored template to exportDir and watches
// the files for external edits. A changed file replaces the open document
// through the whole-document path and is saved back.
func startExportWatcher(ctx context.Context, exportDir string, templates *service.TemplateService, sessions *service.SessionManager) (*docwatch.Watcher, error) {
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return nil, err
	}

	watcher, err := docwatch.New(func(templateID string, t *domain.LayoutTemplate) {
		sess, err := sessions.Open(templateID)
		if err != nil {
			log.Printf("app: reload %s: %v", templateID, err)
			return
		}
		// File edits cannot rename the document id
		t.ID = templateID
		sess.SetLayout(t, "Reload from exported file")
		if err := templates.SaveSession(ctx, sess); err != nil {
			log.Printf("app: save reloaded %s: %v", templateID, err)
		}
	})
	if err != nil {
		return nil, err
	}

	all, err := templates.ListTemplates()
	if err != nil {
		watcher.Close()
		return nil, err
	}

	// Export everything first, then register watches, so our own writes
	// don't come back as reload events.
	for i := range all {
		path := filepath.Join(exportDir, all[i].ID+".json")
		if err := templates.ExportTemplate(&all[i], path); err != nil {
			log.Printf("app: export %s: %v", all[i].ID, err)
		}
	}
	for i := range all {
		path := filepath.Join(exportDir, all[i].ID+".json")
		if err := watcher.WatchFile(all[i].ID, path); err != nil {
			log.Printf("app: watch %s: %v", path, err)
		}
	}
	return watcher, nil
}
