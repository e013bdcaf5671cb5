package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/poelab/internal/catalog"
	"github.com/san-kum/poelab/internal/scene"
	"github.com/san-kum/poelab/internal/validate"
	"github.com/spf13/cobra"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	tutorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7fdbca"))
	youStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
)

func validateScenario(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	report := validate.Validate(raw)
	printReport(args[0], report)
	if !report.Valid {
		return fmt.Errorf("%s is not a valid scenario", args[0])
	}
	return nil
}

func printReport(name string, report validate.Report) {
	verdict := okStyle.Render("✓ " + report.Summary())
	if !report.Valid {
		verdict = errStyle.Render("✗ " + report.Summary())
	}
	fmt.Printf("%s: %s\n", name, verdict)
	for _, e := range report.Errors {
		fmt.Println("  " + errStyle.Render("error:") + " " + e)
	}
	for _, w := range report.Warnings {
		fmt.Println("  " + warnStyle.Render("warning: "+w))
	}
}

// addScenario copies a valid document into the catalog directory under its
// slug, the file name by default.
func addScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	report := validate.Validate(raw)
	printReport(args[0], report)
	if !report.Valid {
		return fmt.Errorf("refusing to add an invalid scenario")
	}
	doc, err := scene.Parse(raw)
	if err != nil {
		return err
	}

	slug := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	if len(args) > 1 {
		slug = args[1]
	}
	if _, err := catalog.BuiltinSource(slug); err == nil {
		return fmt.Errorf("%s is a built-in scenario name", slug)
	}
	path, err := catalog.New(cfg.CatalogDir).Save(slug, doc)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s to %s\n", slug, path)
	return nil
}

// runTutor is a line-based chat with the scenario's tutor.
func runTutor(cmd *cobra.Command, args []string) error {
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
	chat := newConversation(cfg, src.Doc, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(tutorStyle.Render(chat.Messages()[0].Content))
	fmt.Println(youStyle.Render("\n(type quit to leave)"))

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\n> ")
		if !in.Scan() {
			fmt.Println()
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		}
		reply, err := chat.Send(ctx, line)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(tutorStyle.Render(reply.Content))
	}
}
