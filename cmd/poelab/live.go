package main

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/poelab/internal/catalog"
	"github.com/san-kum/poelab/internal/config"
	"github.com/san-kum/poelab/internal/engine/chipmunk"
	"github.com/san-kum/poelab/internal/runtime"
	"github.com/san-kum/poelab/internal/scene"
	"github.com/san-kum/poelab/internal/tutor"
	"github.com/san-kum/poelab/internal/validate"
	"github.com/san-kum/poelab/internal/viz"
	"github.com/san-kum/poelab/internal/watch"
	"github.com/spf13/cobra"
)

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := resolve(cfg, args)
	if err != nil {
		return err
	}
	if report := validate.Validate(src.Raw); !report.Valid {
		return fmt.Errorf("%s: %s", src.Ref, report.Summary())
	}

	var changes <-chan string
	if watchFile {
		if src.Path == "" {
			return fmt.Errorf("%s is built in; copy it to a file to watch it", src.Ref)
		}
		w, err := watch.New(log, src.Path)
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", src.Path, err)
		}
		defer w.Close()
		go func() {
			for err := range w.Errors {
				log.Warn("watch error", "error", err)
			}
		}()
		changes = w.Events
	}

	m, err := newLiveModel(cfg, src, changes, log)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

// newLiveModel builds a running session for src on the chipmunk engine and
// the view around it.
func newLiveModel(cfg *config.Config, src catalog.Source, changes <-chan string, log *slog.Logger) (viz.Model, error) {
	clock := runtime.NewManualClock()
	session := runtime.NewSession(src.Doc, runtime.Options{
		Engine: chipmunk.New(),
		Clock:  clock,
		Step:   cfg.Dt,
		Logger: log,
	})
	if err := session.Build(); err != nil {
		return viz.Model{}, err
	}

	return viz.NewModel(viz.Options{
		Session:    session,
		Clock:      clock,
		Tutor:      newConversation(cfg, src.Doc, log),
		FrameTicks: cfg.FrameTicks(),
		FPS:        cfg.FPS,
		Changes:    changes,
		Theme:      theme,
		Logger:     log,
	}), nil
}

func newConversation(cfg *config.Config, doc *scene.Document, log *slog.Logger) *tutor.Conversation {
	var backend tutor.Backend = tutor.NewScripted(doc)
	if cfg.Tutor.Backend == "remote" {
		backend = tutor.NewRemote(cfg.Tutor.Endpoint, cfg.Tutor.Timeout, doc)
	}
	return tutor.NewConversation(doc, backend, tutor.Options{
		ThinkTime: cfg.Tutor.ThinkTime,
		Logger:    log,
	})
}
