package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/poelab/internal/batch"
	"github.com/san-kum/poelab/internal/config"
	"github.com/san-kum/poelab/internal/engine/chipmunk"
	"github.com/san-kum/poelab/internal/export"
	"github.com/san-kum/poelab/internal/runtime"
	"github.com/san-kum/poelab/internal/validate"
	"github.com/spf13/cobra"
)

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := resolve(cfg, args)
	if err != nil {
		return err
	}
	report := validate.Validate(src.Raw)
	for _, w := range report.Warnings {
		log.Warn("scenario warning", "scenario", src.Ref, "warning", w)
	}
	if !report.Valid {
		for _, e := range report.Errors {
			fmt.Fprintln(os.Stderr, "  "+e)
		}
		return fmt.Errorf("%s: %s", src.Ref, report.Summary())
	}

	sched, err := batch.NewSchedule(pushes, sets)
	if err != nil {
		return err
	}

	manual := runtime.NewManualClock()
	loop := runtime.NewLoop(time.Duration(cfg.Dt / cfg.Speed * float64(time.Second)))
	var clock runtime.Clock = manual
	if realtime {
		clock = loop
	}

	rec := batch.NewRecorder(src.Doc, cfg.Dt, sched, log)
	session := runtime.NewSession(src.Doc, runtime.Options{
		Engine: chipmunk.New(),
		Clock:  clock,
		Step:   cfg.Dt,
		Sink:   rec.Observe,
		Logger: log,
	})
	rec.Bind(session)

	if err := session.Build(); err != nil {
		return err
	}
	defer session.Teardown()
	rec.Fire(0)

	fmt.Printf("running %s (%d steps, %d events)...\n", src.Doc.ID, cfg.Steps(), sched.Len())
	start := time.Now()

	if realtime {
		rec.StopAfter(cfg.Steps())
		if err := runRealtime(cmd.Context(), loop, session, cfg); err != nil {
			return err
		}
	} else {
		manual.Advance(cfg.Steps())
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("simulated: %.2fs over %d ticks\n\n", session.Elapsed(), session.Ticks())
	if err := printSnapshot(session.Snapshot()); err != nil {
		return err
	}

	fmt.Println("\nmetrics:")
	values := rec.Metrics().Values()
	for _, m := range rec.Metrics() {
		fmt.Printf("  %s: %.6f\n", m.Name(), values[m.Name()])
	}
	trace := rec.Trace()
	trace.Metrics = values

	if plot {
		for _, d := range src.Doc.Physics.Dynamics {
			data := trace.Speeds(d.ID)
			if len(data) < 2 {
				continue
			}
			fmt.Println()
			fmt.Println(asciigraph.Plot(data,
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("%s speed (px/step)", d.ID)),
			))
		}
	}

	outputs := []struct {
		path  string
		write func(io.Writer, *export.Trace) error
	}{
		{csvPath, export.WriteCSV},
		{jsonPath, export.WriteJSON},
		{svgPath, func(w io.Writer, t *export.Trace) error {
			_, err := io.WriteString(w, export.SceneSVG(session, t))
			return err
		}},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := export.WriteFile(out.path, trace, out.write); err != nil {
			return fmt.Errorf("failed to write %s: %w", out.path, err)
		}
		fmt.Printf("wrote %s\n", out.path)
	}
	return nil
}

// runRealtime drives the loop until the recorder pauses the session at the
// configured duration or the user interrupts.
func runRealtime(parent context.Context, loop *runtime.Loop, session *runtime.Session, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-errCh:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case <-ticker.C:
			var elapsed float64
			var done bool
			if err := loop.Do(func() {
				elapsed = session.Elapsed()
				done = session.Paused() || session.Ticks() >= cfg.Steps()
			}); err != nil {
				continue
			}
			fmt.Printf("\r  t = %6.2fs", elapsed)
			if done {
				fmt.Println()
				// the loop returns through errCh
				cancel()
				ticker.Stop()
			}
		}
	}
}

func printSnapshot(snap runtime.Snapshot) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tX\tY\tVX\tVY\tSPEED\tMASS\tμ\tμ EFF")
	for _, id := range snap.IDs() {
		st := snap[id]
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.3f\t%.3f\t%.3f\t%.2f\t%.2f\t%.2f\n",
			id, st.Position.X, st.Position.Y, st.Velocity.X, st.Velocity.Y, st.Speed,
			st.Mass, st.Friction, st.EffectiveFriction)
	}
	return w.Flush()
}
