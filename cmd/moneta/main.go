// Command moneta drives backup, restore and reporting against a personal
// finance API from the terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moneta/internal/api/rest"
	"moneta/internal/backup"
	"moneta/internal/cli"
	"moneta/internal/config"
	"moneta/internal/report"
	"moneta/internal/sheets"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: moneta <command> [flags]

Commands:
  export   write a backup document (JSON, optionally CSV and Sheets mirror)
  stage    validate a backup document and show its record counts
  import   replace all remote records with a backup document
  clear    delete every remote record
  report   print the spending report
  runs     list recent backup runs from the local archive
  login    authenticate against the remote API
  logout   end the API session
`)
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	cfg := cli.LoadAndValidateConfig(logger)

	var err error
	switch cmd {
	case "export":
		err = runExport(logger, cfg, args)
	case "stage":
		err = runStage(args)
	case "import":
		err = runImport(logger, cfg, args)
	case "clear":
		err = runClear(logger, cfg, args)
	case "report":
		err = runReport(cfg, args)
	case "runs":
		err = runRuns(logger, cfg, args)
	case "login":
		err = runLogin(cfg, args)
	case "logout":
		err = runLogout(cfg)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

// newEngine wires the backup engine with the configured store, archive and
// event publisher.
func newEngine(logger *slog.Logger, cfg *config.Config) (*backup.Engine, func()) {
	store := cli.InitStore(logger, cfg)
	archive := cli.InitArchive(logger, cfg)
	pub := cli.InitPublisher(logger, cfg)

	cleanup := func() {
		if archive != nil {
			archive.Close()
		}
		if pub != nil {
			pub.Close()
		}
	}
	return backup.NewEngine(store, cfg.Preferences, archive, pub), cleanup
}

func runExport(logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "", "output file (default moneta-backup-<date>.json)")
	csvDir := fs.String("csv", "", "also write per-category CSV files into this directory")
	mirror := fs.Bool("sheets", false, "mirror the snapshot to the configured Google spreadsheet")
	fs.Parse(args)

	engine, cleanup := newEngine(logger, cfg)
	defer cleanup()

	ctx := context.Background()
	doc, err := engine.Export(ctx)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = fmt.Sprintf("moneta-backup-%s.json", time.Now().Format("2006-01-02"))
	}
	data, err := doc.JSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	counts := doc.Counts()
	fmt.Printf("Exported %d expenses, %d budgets, %d savings to %s\n",
		counts.Expenses, counts.Budgets, counts.Savings, path)

	if *csvDir != "" {
		if err := writeCSVFiles(*csvDir, doc); err != nil {
			return err
		}
		fmt.Printf("Wrote CSV files to %s\n", *csvDir)
	}

	if *mirror {
		client, err := sheets.NewFromEnv(ctx)
		if err != nil {
			return fmt.Errorf("sheets mirror: %w", err)
		}
		if err := client.WriteSnapshot(ctx, doc); err != nil {
			return fmt.Errorf("sheets mirror: %w", err)
		}
		fmt.Println("Mirrored snapshot to Google Sheets")
	}
	return nil
}

func writeCSVFiles(dir string, doc *backup.Document) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create csv directory: %w", err)
	}
	files := []struct {
		name string
		data func() ([]byte, error)
	}{
		{"expenses.csv", func() ([]byte, error) { return backup.ExpensesCSV(doc.Expenses) }},
		{"budgets.csv", func() ([]byte, error) { return backup.BudgetsCSV(doc.Budgets) }},
		{"savings.csv", func() ([]byte, error) { return backup.SavingsCSV(doc.Savings) }},
	}
	for _, f := range files {
		data, err := f.data()
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), data, 0600); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}

func runStage(args []string) error {
	fs := flag.NewFlagSet("stage", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: moneta stage <file>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read backup file: %w", err)
	}
	doc, err := backup.Parse(data)
	if err != nil {
		return err
	}
	counts := doc.Counts()
	fmt.Printf("Valid backup document: %d expenses, %d budgets, %d savings\n",
		counts.Expenses, counts.Budgets, counts.Savings)
	if doc.Meta != nil && !doc.Meta.ExportedAt.IsZero() {
		fmt.Printf("Exported at %s\n", doc.Meta.ExportedAt.Format(time.RFC3339))
	}
	return nil
}

func runImport(logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: moneta import [--yes] <file>")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read backup file: %w", err)
	}

	engine, cleanup := newEngine(logger, cfg)
	defer cleanup()

	counts, err := engine.Stage(data)
	if err != nil {
		return err
	}
	fmt.Printf("Staged import: %d expenses, %d budgets, %d savings\n",
		counts.Expenses, counts.Budgets, counts.Savings)
	fmt.Println("Applying will DELETE every current record and replace it with this document.")

	if !*yes && !confirm("Type 'yes' to continue: ") {
		engine.Cancel()
		fmt.Println("Import cancelled")
		return nil
	}

	err = engine.Apply(context.Background(), func(p backup.Progress) {
		fmt.Printf("\rRestoring %s... %d/%d", p.Phase, p.Done, p.Total)
	})
	fmt.Println()
	if err != nil {
		return err
	}
	fmt.Println("Import complete")
	return nil
}

func runClear(logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	fs.Parse(args)

	fmt.Println("This will DELETE every expense, budget and savings goal. There is no undo.")
	if !*yes && !confirm("Type 'yes' to continue: ") {
		fmt.Println("Clear cancelled")
		return nil
	}

	engine, cleanup := newEngine(logger, cfg)
	defer cleanup()

	if err := engine.ClearAll(context.Background()); err != nil {
		return err
	}
	fmt.Println("All records deleted")
	return nil
}

func runReport(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	months := fs.Int("months", 0, "trailing months to display (0 = all)")
	ma := fs.Int("ma", 0, "moving average window in months (0 = off)")
	top := fs.Int("top", 5, "category limit before folding into Other (0 = all)")
	fromSummary := fs.Bool("from-summary", false, "use the API's precomputed summary instead of raw expenses")
	fs.Parse(args)

	logger := slog.Default()
	store := cli.InitStore(logger, cfg)
	ctx := context.Background()
	opts := report.Options{Months: *months, MovingAverageWindow: *ma, CategoryLimit: *top}

	var rep report.Report
	if *fromSummary {
		summary, err := store.ReadSummary(ctx)
		if err != nil {
			return err
		}
		rep = report.FromSummary(summary, opts)
	} else {
		expenses, err := store.ListExpenses(ctx)
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		monthly, categories := report.FromExpenses(expenses)
		rep = report.Build(monthly, categories, opts)
	}

	printReport(cfg.Preferences, rep)
	return nil
}

func printReport(prefs config.Preferences, rep report.Report) {
	if len(rep.Monthly) == 0 && len(rep.Categories) == 0 {
		fmt.Println("No data")
		return
	}

	fmt.Println("Monthly totals:")
	for i, m := range rep.Monthly {
		line := fmt.Sprintf("  %s  %s", m.Month, prefs.FormatAmount(m.Total))
		if i < len(rep.MovingAverage) && rep.MovingAverage[i] != nil {
			line += fmt.Sprintf("  (avg %s)", prefs.FormatAmount(*rep.MovingAverage[i]))
		}
		fmt.Println(line)
	}

	if len(rep.Categories) > 0 {
		fmt.Println("Categories:")
		for _, c := range rep.Categories {
			fmt.Printf("  %-20s %s\n", c.Category, prefs.FormatAmount(c.Total))
		}
	}

	fmt.Printf("Total: %s  Monthly mean: %s\n",
		prefs.FormatAmount(rep.Total), prefs.FormatAmount(rep.MonthlyMean))
	if rep.Change != nil {
		fmt.Printf("Month-over-month: %+d%%\n", report.RoundPercent(*rep.Change))
	}
	if rep.Best != nil && rep.Worst != nil {
		fmt.Printf("Best month: %s (%s)  Worst month: %s (%s)\n",
			rep.Best.Month, prefs.FormatAmount(rep.Best.Total),
			rep.Worst.Month, prefs.FormatAmount(rep.Worst.Total))
	}
	for _, a := range rep.Anomalies {
		fmt.Printf("Unusual month: %s (%s)\n", a.Month, prefs.FormatAmount(a.Total))
	}
}

func runRuns(logger *slog.Logger, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	limit := fs.Int("limit", 20, "number of runs to show")
	fs.Parse(args)

	archive := cli.InitArchive(logger, cfg)
	if archive == nil {
		return fmt.Errorf("run archive is disabled (MONETA_DB_PATH is empty)")
	}
	defer archive.Close()

	runs, err := archive.ListRuns(context.Background(), *limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs")
		return nil
	}
	for _, r := range runs {
		line := fmt.Sprintf("%s  %-6s %-9s %d expenses, %d budgets, %d savings",
			r.StartedAt.Local().Format("2006-01-02 15:04"), r.Kind, r.Status,
			r.Expenses, r.Budgets, r.Savings)
		if r.Error != "" {
			line += "  error: " + r.Error
		}
		fmt.Println(line)
	}
	return nil
}

func runLogin(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	fs.Parse(args)

	client, err := restClient(cfg)
	if err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("usage: moneta login --email <address>")
	}

	password := prompt("Password: ")
	ctx := context.Background()
	result, err := client.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	if result.MFARequired {
		code := prompt("MFA code: ")
		if err := client.VerifyMFA(ctx, code); err != nil {
			return err
		}
	}
	fmt.Println("Logged in")
	return nil
}

func runLogout(cfg *config.Config) error {
	client, err := restClient(cfg)
	if err != nil {
		return err
	}
	if err := client.Logout(context.Background()); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func restClient(cfg *config.Config) (*rest.Client, error) {
	if cfg.Backend != "rest" {
		return nil, fmt.Errorf("authentication requires the rest backend (set MONETA_BACKEND=rest)")
	}
	return rest.NewWithSession(cfg.APIBaseURL, cfg.SessionFile)
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func confirm(label string) bool {
	return strings.EqualFold(prompt(label), "yes")
}
