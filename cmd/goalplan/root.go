package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rpgo/goal-planner/internal/calculation"
	"github.com/rpgo/goal-planner/internal/config"
	"github.com/rpgo/goal-planner/internal/domain"
	"github.com/rpgo/goal-planner/internal/output"
)

// app carries the persistent flags and the settings loaded before each command.
type app struct {
	verbose      bool
	format       string
	outDir       string
	noColor      bool
	settingsPath string
	storePath    string

	settings config.Settings
	logger   *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "goalplan",
		Short:        "Shared goal funding planner",
		Long:         "Compute how much each member of a shared savings goal must contribute, and explore what-if scenarios.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVarP(&a.format, "format", "f", "", "Output format (console, console-lite, csv, detailed-csv, html, json, all)")
	pf.StringVarP(&a.outDir, "out", "o", "", "Write the report to a timestamped file in this directory")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	pf.StringVar(&a.settingsPath, "settings", "", "Settings file (default $XDG_CONFIG_HOME/goalplan/config.toml)")
	pf.StringVar(&a.storePath, "store", "", "Goal store database path")

	root.AddCommand(
		newPlanCmd(a),
		newScenarioCmd(a),
		newCompareCmd(a),
		newSimulateCmd(a),
		newAllocateCmd(a),
		newRebalanceCmd(a),
		newExampleCmd(a),
		newStoreCmd(a),
		newSettingsCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	s, err := config.LoadSettingsFrom(a.settingsFile())
	if err != nil {
		return err
	}
	a.settings = s

	if a.format == "" {
		a.format = s.Output.Format
	}
	if a.outDir == "" {
		a.outDir = s.Output.Directory
	}
	if a.storePath == "" {
		a.storePath = s.StorePath()
	}
	noColor := a.noColor || s.Output.NoColor || os.Getenv("NO_COLOR") != ""
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	a.logger = newLogger(cmd.ErrOrStderr(), a.verbose, noColor)
	return nil
}

func (a *app) engine() *calculation.PlanningEngine {
	pe := calculation.NewPlanningEngine()
	pe.SetLogger(a.logger)
	return pe
}

// loadGoals parses a goal file and narrows it to one goal when name is set.
func (a *app) loadGoals(path, name string) (*domain.Configuration, error) {
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debugf("loaded %d goal(s) from %s", len(cfg.Goals), path)
	if name == "" {
		return cfg, nil
	}
	g, ok := cfg.FindGoal(name)
	if !ok {
		return nil, fmt.Errorf("goal %q not found in %s", name, path)
	}
	return &domain.Configuration{Goals: []domain.Goal{*g}, MemberDirectory: cfg.MemberDirectory}, nil
}

// emit renders the report to w, or writes it under the output directory when one is set.
func (a *app) emit(w io.Writer, report *domain.PlanReport) error {
	if a.outDir != "" || strings.EqualFold(a.format, "all") {
		files, err := output.GenerateReport(report, a.format, a.outDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(w, "Report written to %s\n", f)
		}
		return nil
	}
	data, err := output.Render(report, a.format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
