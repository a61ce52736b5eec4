package main

import (
	"flag"
	"log"

	"pagebuilder/internal/app"
)

func main() {
	dataDir := flag.String("data", "", "data directory (default ~/.local/share/pagebuilder)")
	autosave := flag.String("autosave", "", "autosave cron spec (default @every 30s)")
	flag.Parse()

	if err := app.Run(app.Options{DataDir: *dataDir, AutosaveSpec: *autosave}); err != nil {
		log.Fatalf("pagebuilder: %v", err)
	}
}
