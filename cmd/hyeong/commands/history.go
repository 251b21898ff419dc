// cmd/hyeong/commands/history.go
package commands

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hyeong-lang/hyeong/internal/history"
)

// openHistoryStore opens the default sqlite-backed session history
// store, logging (rather than failing) if the cache directory or
// database can't be reached: a run/debug command's own result
// is never blocked on history bookkeeping.
func openHistoryStore() *history.Store {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		log.Printf("[warn] history disabled: %v", err)
		return nil
	}
	dir := filepath.Join(cacheDir, "hyeong")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[warn] history disabled: %v", err)
		return nil
	}
	store, err := history.OpenDefault(filepath.Join(dir, "history.db"))
	if err != nil {
		log.Printf("[warn] history disabled: %v", err)
		return nil
	}
	return store
}

// recordSession best-effort logs one run/debug session to the default
// history store; a history failure never affects the command's own
// exit status.
func recordSession(source, command string, exitCode int, startedAt time.Time) {
	store := openHistoryStore()
	if store == nil {
		return
	}
	defer store.Close()
	_, err := store.Save(context.Background(), history.Record{
		Source:    source,
		Command:   command,
		ExitCode:  exitCode,
		StartedAt: startedAt,
		EndedAt:   time.Now(),
	})
	if err != nil {
		log.Printf("[warn] history: %v", err)
	}
}
