// Command edpex runs batch assessments from CSV or JSON input files and
// prints the scored result as JSON.
package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/edcellence/edpex-engine/internal/assessment"
	"github.com/edcellence/edpex-engine/internal/config"
	"github.com/edcellence/edpex-engine/internal/database"
)

var (
	version = "v0.0.1-default"
	commit  = ""
)

var (
	fileFlag = &cli.StringFlag{
		Name:     "file",
		Aliases:  []string{"f"},
		Usage:    "Path to the input file (.csv or .json)",
		Required: true,
	}

	weightsFlag = &cli.StringFlag{
		Name:    "weights",
		Aliases: []string{"w"},
		Usage:   "Path to a YAML weight profile (optional, defaults to the standard weights)",
	}

	departmentFlag = &cli.StringFlag{
		Name:     "department",
		Aliases:  []string{"d"},
		Usage:    "Department being assessed",
		Required: true,
	}

	cycleFlag = &cli.StringFlag{
		Name:     "cycle",
		Aliases:  []string{"c"},
		Usage:    "Assessment cycle label, e.g. 2026",
		Required: true,
	}

	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Data directory for persisting the result (optional, no persistence when omitted)",
	}

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}
)

func main() {
	app := newApp(os.Stdout)
	if err := app.Run(os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "edpex",
		Version: version + " (commit: " + commit + ")",
		Usage:   "CLI for batch organizational quality assessments",
		Flags: []cli.Flag{
			debugFlag,
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelInfo
			if c.Bool(debugFlag.Name) {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "Run an assessment over a batch input file",
				Flags: []cli.Flag{
					fileFlag,
					weightsFlag,
					departmentFlag,
					cycleFlag,
					dbFlag,
				},
				Action: func(c *cli.Context) error {
					return runAssessment(c, out)
				},
			},
		},
	}
}

func runAssessment(c *cli.Context, out io.Writer) error {
	weights, err := config.LoadWeightProfile(c.String(weightsFlag.Name))
	if err != nil {
		return err
	}

	processItems, resultsItems, err := loadItems(c.String(fileFlag.Name))
	if err != nil {
		return err
	}

	builder := assessment.NewBuilder(
		c.String(departmentFlag.Name),
		c.String(cycleFlag.Name),
		assessment.WithConfig(weights),
	)
	for _, item := range processItems {
		builder.AddProcessItem(item)
	}
	for _, item := range resultsItems {
		builder.AddResultsItem(item)
	}

	result, err := builder.Finalize()
	if err != nil {
		return err
	}

	slog.Debug("Assessment finalized",
		"department", result.Department,
		"cycle", result.Cycle,
		"organizational_score", result.OrganizationalScore,
		"maturity_band", result.Maturity.Band)

	if dataDir := c.String(dbFlag.Name); dataDir != "" {
		db, err := database.NewDB(dataDir)
		if err != nil {
			return err
		}
		defer db.Close()

		record, err := database.NewRepository(db).SaveAssessment(result)
		if err != nil {
			return err
		}
		slog.Info("Assessment persisted", "assessment_id", record.ID)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
