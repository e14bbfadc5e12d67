// Package main provides the CLI entrypoint for upgrade-planner.
//
// upgrade-planner compares two persistent model snapshots and plans the
// upgrade between them:
//   - Maps old types and fields onto new ones, guided by upgrade hints
//   - Infers junction table mappings from their owning associations
//   - Emits the physical schema operations the upgrade needs
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v3"

	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/logging"
	"upgrade-planner/internal/model"
	"upgrade-planner/internal/plan"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "upgrade-planner",
		Usage:     "Plan schema upgrades between two model snapshots",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("UPGRADE_PLANNER_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "text or json",
				Sources: cli.EnvVars("UPGRADE_PLANNER_LOG_FORMAT"),
			},
		},
		Commands: []*cli.Command{
			planCommand(stdout, stderr),
			checkCommand(stdout, stderr),
		},
	}
}

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "old", Required: true, Usage: "old model snapshot (YAML)"},
		&cli.StringFlag{Name: "new", Required: true, Usage: "new model snapshot (YAML)"},
		&cli.StringFlag{Name: "hints", Usage: "upgrade hint file (YAML)"},
	}
}

func planCommand(stdout, stderr io.Writer) *cli.Command {
	flags := append(inputFlags(),
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write the plan to a file instead of stdout"},
		&cli.BoolFlag{Name: "explain", Usage: "include the explanation of every mapping"},
		&cli.BoolFlag{Name: "dump", Usage: "dump the mapping tables to stderr"},
	)

	return &cli.Command{
		Name:  "plan",
		Usage: "Generate the upgrade plan as YAML",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := generate(c, stderr)
			if err != nil {
				return err
			}

			if c.Bool("dump") {
				spew.Fdump(stderr, plan.Export(p, true))
			}

			data, err := plan.ExportYAML(p, c.Bool("explain"))
			if err != nil {
				return fmt.Errorf("failed to render plan: %w", err)
			}

			if path := c.String("output"); path != "" {
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("failed to write plan: %w", err)
				}

				return nil
			}

			_, err = stdout.Write(data)

			return err
		},
	}
}

func checkCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate the hints against both snapshots",
		Flags: inputFlags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := generate(c, stderr)
			if err != nil {
				return err
			}

			fmt.Fprintf(stdout, "ok: %d types, %d fields mapped; %d hints, %d schema hints\n",
				p.Types.Len(), p.Fields.Len(), len(p.Hints), len(p.SchemaHints))

			return nil
		},
	}
}

// generate loads the inputs named by the command flags and runs the planner.
func generate(c *cli.Command, stderr io.Writer) (*plan.UpgradePlan, error) {
	logger, err := newLogger(c, stderr)
	if err != nil {
		return nil, err
	}

	oldModel, err := model.Load(c.String("old"))
	if err != nil {
		return nil, err
	}

	newModel, err := model.Load(c.String("new"))
	if err != nil {
		return nil, err
	}

	var hints hint.List

	if path := c.String("hints"); path != "" {
		f, err := hint.LoadFile(path)
		if err != nil {
			return nil, err
		}

		hints = f.Hints
	}

	logger.Info("planning upgrade", "old", c.String("old"), "new", c.String("new"), "hints", len(hints))

	config := plan.DefaultConfig()
	config.Logger = logger

	p, err := plan.GenerateHints(oldModel, newModel, hints, config)
	if err != nil {
		return nil, err
	}

	logger.Info("plan generated", "hints", len(p.Hints), "schema_hints", len(p.SchemaHints))

	return p, nil
}

func newLogger(c *cli.Command, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(c.String("log-level"))
	if err != nil {
		return nil, err
	}

	format, err := logging.ParseFormat(c.String("log-format"))
	if err != nil {
		return nil, err
	}

	return logging.New(level, format, w), nil
}
