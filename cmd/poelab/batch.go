package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/poelab/internal/batch"
	"github.com/san-kum/poelab/internal/catalog"
	"github.com/san-kum/poelab/internal/engine"
	"github.com/san-kum/poelab/internal/engine/chipmunk"
	"github.com/san-kum/poelab/internal/export"
	"github.com/san-kum/poelab/internal/scene"
	"github.com/spf13/cobra"
)

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	plan, err := batch.LoadPlan(args[0])
	if err != nil {
		return fmt.Errorf("failed to load plan: %w", err)
	}
	specs, err := plan.Specs()
	if err != nil {
		return err
	}
	for i := range specs {
		if specs[i].Dt <= 0 {
			specs[i].Dt = cfg.Dt
		}
		if specs[i].Duration <= 0 {
			specs[i].Duration = cfg.Duration
		}
	}

	store := catalog.New(cfg.CatalogDir)
	resolve := func(ref string) (*scene.Document, error) {
		src, err := catalog.Resolve(ref, store)
		if err != nil {
			return nil, err
		}
		return src.Doc, nil
	}
	newEngine := func() engine.Engine { return chipmunk.New() }

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if plan.Name != "" {
		fmt.Printf("plan: %s\n", plan.Name)
	}
	fmt.Printf("running %d simulations on %d workers...\n", len(specs), workers)
	start := time.Now()

	results, err := batch.RunAll(ctx, specs, resolve, newEngine, workers, log)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	if err := printResults(results); err != nil {
		return err
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
		for _, r := range results {
			path := filepath.Join(outDir, fileSafe(r.Spec.Name)+".json")
			if err := export.WriteFile(path, r.Trace, export.WriteJSON); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		}
		fmt.Printf("\nwrote %d traces to %s\n", len(results), outDir)
	}
	return nil
}

// printResults shows one row per run with every metric any run produced.
func printResults(results []*batch.Result) error {
	seen := make(map[string]bool)
	var names []string
	for _, r := range results {
		for name := range r.Metrics {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tSCENARIO\tTICKS\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	for _, r := range results {
		row := []string{r.Spec.Name, r.Spec.Scenario, fmt.Sprintf("%d", r.Ticks)}
		for _, name := range names {
			if v, ok := r.Metrics[name]; ok {
				row = append(row, fmt.Sprintf("%.4f", v))
			} else {
				row = append(row, "-")
			}
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.', r == '=':
			return r
		}
		return '_'
	}, name)
}
