package devgateway

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/muurk/formwiz/internal/logging"
)

// isFormFile reports whether name has a form file extension.
func isFormFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Reload reloads the form directory and swaps in the configured form.
// On failure the current form keeps being served.
func (s *Server) Reload() error {
	catalog, err := LoadCatalog(s.config.Dir)
	if err != nil {
		return err
	}
	form, err := catalog.Select(s.config.FormID)
	if err != nil {
		return err
	}
	s.setForm(form)
	logging.Info("Forms reloaded",
		zap.String("form_id", form.ID),
		zap.Int("fields", form.FieldCount()),
	)
	return nil
}

// watch reloads the form directory whenever a form file changes, until
// ctx is done.
func (s *Server) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.config.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.config.Dir, err)
	}
	logging.Info("Watching form directory", zap.String("dir", s.config.Dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isFormFile(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			logging.Debug("Form file changed",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()),
			)
			if err := s.Reload(); err != nil {
				logging.Warn("Reload failed, keeping current form", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Watcher error", zap.Error(err))
		}
	}
}
