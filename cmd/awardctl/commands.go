package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/riskibarqy/federation-awards/internal/app"
	"github.com/riskibarqy/federation-awards/internal/config"
	"github.com/riskibarqy/federation-awards/internal/domain/results"
	"github.com/riskibarqy/federation-awards/internal/infrastructure/storage"
	"github.com/riskibarqy/federation-awards/internal/platform/logging"
	"github.com/riskibarqy/federation-awards/internal/usecase"
)

// bootstrap loads configuration and wires the services. Logs go to stderr so
// command output on stdout can be piped.
func bootstrap(c *cli.Context) (*app.Services, *logging.Logger, error) {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel).Named("awardctl")
	logging.SetDefault(logger)

	services, err := app.NewServices(c.Context, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return services, logger, nil
}

func newResultsCommand() *cli.Command {
	return &cli.Command{
		Name:  "results",
		Usage: "print the resolved results table",
		Action: func(c *cli.Context) error {
			services, logger, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			res, err := services.Results.GetCompetitionResults(c.Context, c.Int64("competition"))
			if err != nil {
				return err
			}
			return writeResultsTable(c.App.Writer, res)
		},
	}
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the results as csv or xlsx",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: string(usecase.ExportFormatXLSX), Usage: "csv or xlsx"},
			&cli.StringFlag{Name: "out", Usage: "output file, defaults to the generated filename"},
		},
		Action: func(c *cli.Context) error {
			format := usecase.ExportFormat(strings.ToLower(c.String("format")))
			if format != usecase.ExportFormatCSV && format != usecase.ExportFormatXLSX {
				return fmt.Errorf("unsupported format %q", c.String("format"))
			}

			services, logger, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			doc, err := services.Export.Export(c.Context, c.Int64("competition"), format)
			if err != nil {
				return err
			}
			return writeDocument(c, doc)
		},
	}
}

func newChartCommand() *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "render the club medal chart as png",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "output file, defaults to the generated filename"},
		},
		Action: func(c *cli.Context) error {
			services, logger, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			doc, err := services.Export.MedalChart(c.Context, c.Int64("competition"))
			if err != nil {
				return err
			}
			return writeDocument(c, doc)
		},
	}
}

func newDiplomasCommand() *cli.Command {
	return &cli.Command{
		Name:  "diplomas",
		Usage: "render diplomas into a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out-dir", Value: "diplomas", Usage: "target directory"},
			&cli.Int64Flag{Name: "category", Usage: "only this category id"},
			&cli.BoolFlag{Name: "participants", Usage: "also render participant diplomas"},
		},
		Action: func(c *cli.Context) error {
			services, logger, err := bootstrap(c)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			batch, err := services.Diplomas.GenerateBatch(c.Context, c.Int64("competition"), usecase.DiplomaFilter{
				CategoryID:          c.Int64("category"),
				IncludeParticipants: c.Bool("participants"),
			})
			if err != nil {
				return err
			}
			written, err := saveBatch(c.Context, storage.NewFSStore(c.String("out-dir")), batch)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "batch %s: %d written, %d failed\n", batch.ID, written, len(batch.Failed()))
			for _, f := range batch.Failed() {
				fmt.Fprintf(c.App.Writer, "  %s: %v\n", f.Request.Filename, f.Err)
			}
			if written == 0 && len(batch.Results) > 0 {
				return fmt.Errorf("no diploma could be rendered")
			}
			return nil
		},
	}
}

type objectWriter interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

func saveBatch(ctx context.Context, out objectWriter, batch usecase.DiplomaBatch) (int, error) {
	written := 0
	for _, res := range batch.Succeeded() {
		if err := out.Put(ctx, res.Document.Filename, "application/pdf", res.Document.Bytes); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func writeDocument(c *cli.Context, doc usecase.ExportDocument) error {
	path := c.String("out")
	if path == "" {
		path = doc.Filename
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, doc.Body, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

func writeResultsTable(w io.Writer, res results.CompetitionResults) error {
	fmt.Fprintf(w, "%s: %d athletes, %d categories\n", res.Competition.Name, res.TotalAthletes(), res.TotalCategories())
	if res.IsEmpty() {
		fmt.Fprintln(w, "No categories found for this competition.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, cat := range res.Categories {
		fmt.Fprintf(tw, "\n%s\t%s\t%s\n", cat.Category.Name, cat.Category.Type.Label(), cat.Category.GroupGenderLine())
		for i, row := range cat.Sorted() {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, row.Placement.Display(), row.DisplayName)
		}
	}
	return tw.Flush()
}
