// quote prices line items against a catalog file without a running server.
//
// Usage:
//
//	quote keys --catalog prices.csv
//	quote estimate --catalog prices.xlsx --items order.yaml [--markup 11] [--out smeta.xlsx] [--pdf quote.pdf]
//	quote inspect --file smeta.xlsx
//	quote template --out price_list.xlsx
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"estimator/config"
	"estimator/services"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "quote",
		Usage:   "Price line items against a supplier catalog",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"QUOTE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Optional .env file with ESTIMATOR_* settings",
			},
		},
		Before: func(c *cli.Context) error {
			initLogger(c.String("log-level"))
			return config.LoadDotEnv(c.String("env-file"))
		},
		Commands: []*cli.Command{
			keysCommand(),
			estimateCommand(),
			inspectCommand(),
			templateCommand(),
		},
	}
}

func initLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func loadCatalog(path string) (*services.CatalogIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	rows, err := services.ParseCatalogFile(f, path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	idx, err := services.BuildCatalog(rows)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	for _, d := range idx.Duplicates() {
		slog.Warn("duplicate catalog key", "key", d.Key.String(), "row", d.Row, "replaces_row", d.FirstRow)
	}
	slog.Debug("catalog loaded", "file", path, "rows", len(rows), "keys", idx.Len())
	return idx, nil
}

// =============================================================================
// KEYS COMMAND
// =============================================================================

func keysCommand() *cli.Command {
	return &cli.Command{
		Name:  "keys",
		Usage: "List the lookup keys of a catalog file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "catalog",
				Aliases:  []string{"c"},
				Usage:    "Path to the price list (.csv or .xlsx)",
				Required: true,
			},
		},
		Action: runKeys,
	}
}

func runKeys(c *cli.Context) error {
	idx, err := loadCatalog(c.String("catalog"))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tPRICE\tUNIT")
	for _, e := range idx.Entries() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key.String(), services.FormatAmount(e.Price), e.Unit)
	}
	return w.Flush()
}

// =============================================================================
// ESTIMATE COMMAND
// =============================================================================

func estimateCommand() *cli.Command {
	return &cli.Command{
		Name:  "estimate",
		Usage: "Price an order file and optionally export it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "catalog",
				Aliases:  []string{"c"},
				Usage:    "Path to the price list (.csv or .xlsx)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "items",
				Aliases:  []string{"i"},
				Usage:    "Path to the YAML order file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "markup",
				Aliases: []string{"m"},
				Usage:   "Markup percentage; overrides the order file and ESTIMATOR_DEFAULT_MARKUP",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Document title; overrides the order file",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write the estimate workbook to this .xlsx path",
			},
			&cli.StringFlag{
				Name:  "pdf",
				Usage: "Write a PDF quote to this path",
			},
		},
		Action: runEstimate,
	}
}

func runEstimate(c *cli.Context) error {
	settings, err := config.Load()
	if err != nil {
		slog.Warn("invalid settings, using defaults where needed", "error", err)
	}

	idx, err := loadCatalog(c.String("catalog"))
	if err != nil {
		return err
	}

	f, err := os.Open(c.String("items"))
	if err != nil {
		return fmt.Errorf("open order: %w", err)
	}
	order, err := services.ParseOrderYAML(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("order %s: %w", c.String("items"), err)
	}

	rate, err := order.MarkupRate(settings.DefaultMarkupPercent)
	if err != nil {
		return err
	}
	if v := c.String("markup"); v != "" {
		percent, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("--markup: %w", err)
		}
		if rate, err = services.MarkupRateFromPercent(percent); err != nil {
			return fmt.Errorf("--markup: %w", err)
		}
	}

	report, failures := services.EvaluateBatch(idx, order.Items, rate)
	for _, le := range failures {
		slog.Warn("line item skipped", "position", le.Position, "key", le.Key.String(), "error", le.Err)
	}

	printReport(c, report)

	if report.IsEmpty() {
		return fmt.Errorf("no line item could be priced (%d failed)", len(failures))
	}

	title := order.Title
	if t := c.String("title"); t != "" {
		title = t
	}
	if title == "" {
		title = "Estimate"
	}
	data := services.NewExportData(title, report, time.Now())

	if out := c.String("out"); out != "" {
		b, err := services.GenerateExcel(data)
		if err != nil {
			return fmt.Errorf("generate workbook: %w", err)
		}
		if err := os.WriteFile(out, b, 0o644); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		slog.Info("workbook written", "path", out, "reference", data.Reference)
	}
	if out := c.String("pdf"); out != "" {
		b, err := services.GenerateEstimatePDF(data)
		if err != nil {
			return fmt.Errorf("generate pdf: %w", err)
		}
		if err := os.WriteFile(out, b, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		slog.Info("pdf written", "path", out, "reference", data.Reference)
	}
	return nil
}

func printReport(c *cli.Context, report services.EstimateReport) {
	w := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tITEM\tQTY\tPRICE\tBASE\tFINAL\t")
	for i, item := range report.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			i+1,
			item.Name,
			item.FormattedQuantity(),
			services.FormatAmount(item.UnitPrice),
			services.FormatAmount(item.BaseCost),
			services.FormatAmount(item.FinalCost),
		)
	}
	w.Flush()

	fmt.Fprintf(c.App.Writer, "\nBase total:  %s\n", services.FormatTenge(report.TotalBaseCost))
	fmt.Fprintf(c.App.Writer, "%s: %s\n", services.FinalTotalLabel(report.MarkupPercent()), services.FormatTenge(report.TotalFinalCost))
}

// =============================================================================
// INSPECT COMMAND
// =============================================================================

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Read back an exported estimate workbook and check its totals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Usage:    "Path to an exported .xlsx estimate",
				Required: true,
			},
		},
		Action: runInspect,
	}
}

func runInspect(c *cli.Context) error {
	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	est, err := services.ReadEstimateExcel(f)
	if err != nil {
		return err
	}

	sum := est.SumBaseCost()
	fmt.Fprintf(c.App.Writer, "Lines:       %d\n", len(est.Lines))
	fmt.Fprintf(c.App.Writer, "Base total:  %s\n", services.FormatAmount(est.BaseTotal))
	fmt.Fprintf(c.App.Writer, "%s: %s\n", est.FinalLabel, services.FormatAmount(est.FinalTotal))

	// cells hold float64, so compare at currency precision
	if !sum.Round(2).Equal(est.BaseTotal.Round(2)) {
		slog.Warn("line sum differs from base total", "sum", sum.String(), "base_total", est.BaseTotal.String())
		return fmt.Errorf("base cost column sums to %s, summary says %s", sum.String(), est.BaseTotal.String())
	}
	slog.Debug("totals consistent", "lines", len(est.Lines))
	return nil
}

// =============================================================================
// TEMPLATE COMMAND
// =============================================================================

func templateCommand() *cli.Command {
	return &cli.Command{
		Name:  "template",
		Usage: "Write an empty price list workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "price_list_template.xlsx",
				Usage:   "Destination .xlsx path",
			},
		},
		Action: func(c *cli.Context) error {
			b, err := services.GenerateCatalogTemplate()
			if err != nil {
				return fmt.Errorf("generate template: %w", err)
			}
			if err := os.WriteFile(c.String("out"), b, 0o644); err != nil {
				return fmt.Errorf("write template: %w", err)
			}
			slog.Info("template written", "path", c.String("out"))
			return nil
		},
	}
}
