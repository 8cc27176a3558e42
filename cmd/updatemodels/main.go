package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Carmen-Shannon/oxy-viewer/engine/manifest"
)

func main() {
	dir := flag.String("dir", "public", "Directory containing the .gltf / .glb assets")
	base := flag.String("base", "X-Bot", "File stem of the base character, listed first")
	out := flag.String("out", "", "Manifest path (default <dir>/models.yaml)")
	watch := flag.Bool("watch", false, "Regenerate the manifest whenever an asset changes")
	flag.Parse()

	path := *out
	if path == "" {
		path = filepath.Join(*dir, "models.yaml")
	}

	if err := update(*dir, *base, path); err != nil {
		log.Fatalf("Failed to update model list: %v", err)
	}
	if !*watch {
		return
	}

	w, err := manifest.NewWatcher(*dir)
	if err != nil {
		log.Fatalf("Failed to watch %s: %v", *dir, err)
	}
	defer w.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	log.Printf("Watching %s for model changes...", *dir)
	for {
		select {
		case <-sigChan:
			return
		case changed, ok := <-w.Events:
			if !ok {
				return
			}
			log.Printf("Changed: %s", filepath.Base(changed))
			if err := update(*dir, *base, path); err != nil {
				log.Printf("Warning: failed to update model list: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("Warning: watcher error: %v", err)
		}
	}
}

func update(dir, base, path string) error {
	m, err := manifest.Generate(dir, base)
	if err != nil {
		return err
	}
	if err := manifest.Save(path, m); err != nil {
		return err
	}
	fmt.Printf("Updated %s with %d models.\n", path, len(m.Models))
	return nil
}
