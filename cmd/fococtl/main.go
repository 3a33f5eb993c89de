// fococtl runs FocoAgora maintenance tasks against the application database.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/focoagora/backend/src/config"
	"github.com/focoagora/backend/src/database"
	"github.com/focoagora/backend/src/logger"
	"github.com/focoagora/backend/src/money"
	"github.com/focoagora/backend/src/processors"
	"github.com/focoagora/backend/src/services"
	"github.com/focoagora/backend/src/utils"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
)

var (
	db    *sql.DB
	suite *processors.Suite
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "fococtl",
	Short:         "FocoAgora maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadConfig()
		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = config.Cfg.LogLevel
		}
		logger.InitLogger(level)
		if path, _ := cmd.Flags().GetString("db"); path != "" {
			config.Cfg.DatabasePath = path
		}

		var err error
		if db, err = database.Open(config.Cfg.DatabasePath); err != nil {
			return err
		}
		assumptions := processors.DefaultAssumptions()
		assumptions.DefaultMinimumCash = money.Parse(config.Cfg.DefaultMinimumCash)
		suite = processors.NewSuite(assumptions)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "database path (default: DATABASE_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("date", "", "reference date YYYY-MM-DD (default: today)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(generateCostsCmd)
	rootCmd.AddCommand(projectionsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(cashflowCmd)
}

func referenceDate(cmd *cobra.Command) (time.Time, error) {
	s, _ := cmd.Flags().GetString("date")
	if s == "" {
		return utils.Day(time.Now()), nil
	}
	d, ok := utils.ParseISODate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

func requiredUser(cmd *cobra.Command) (string, error) {
	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		return "", fmt.Errorf("--user is required")
	}
	return user, nil
}

func dashboardService() services.DashboardService {
	return services.NewDashboardService(db, suite, cache.New(config.Cfg.CacheExpiration, config.Cfg.CacheCleanupInterval))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- Migrate ---

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		if path == "" {
			path = config.Cfg.MigrationsPath
		}
		return database.Migrate(db, path)
	},
}

func init() {
	migrateCmd.Flags().String("path", "", "migrations directory (default: MIGRATIONS_PATH)")
}

// --- Generate fixed costs ---

var generateCostsCmd = &cobra.Command{
	Use:   "generate-costs",
	Short: "Generate the month's fixed-cost payables from the cost catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requiredUser(cmd)
		if err != nil {
			return err
		}
		asOf, err := referenceDate(cmd)
		if err != nil {
			return err
		}
		month := utils.MonthStart(asOf)
		if m, _ := cmd.Flags().GetString("month"); m != "" {
			parsed, ok := utils.ParseMonth(m)
			if !ok {
				return fmt.Errorf("invalid --month %q, expected YYYY-MM", m)
			}
			month = parsed
		}

		ledger := services.NewLedgerService(db, suite, dashboardService())
		result, err := ledger.GenerateFixedCosts(user, month, asOf)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d generated, %d already present\n", month.Format("2006-01"), len(result.Generated), result.AlreadyExisting)
		for _, e := range result.Generated {
			fmt.Printf("  %s  %-30s %s\n", utils.FormatISODate(e.DueDate), e.Description, money.Format(e.Amount))
		}
		return nil
	},
}

func init() {
	generateCostsCmd.Flags().String("user", "", "user ID")
	generateCostsCmd.Flags().String("month", "", "target month YYYY-MM (default: current month)")
}

// --- Receivable projections ---

var projectionsCmd = &cobra.Command{
	Use:   "projections",
	Short: "Regenerate the receivable projections from the revenue channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requiredUser(cmd)
		if err != nil {
			return err
		}
		asOf, err := referenceDate(cmd)
		if err != nil {
			return err
		}
		ledger := services.NewLedgerService(db, suite, dashboardService())
		result, err := ledger.RegenerateProjections(user, asOf)
		if err != nil {
			return err
		}
		fmt.Printf("%d removed, %d created\n", result.Removed, len(result.Created))
		return nil
	},
}

func init() {
	projectionsCmd.Flags().String("user", "", "user ID")
}

// --- Import ---

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import ledger entries from a csv, xlsx or extracao file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requiredUser(cmd)
		if err != nil {
			return err
		}
		source, _ := cmd.Flags().GetString("fonte")
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		ledger := services.NewLedgerService(db, suite, dashboardService())
		result, err := ledger.Import(user, source, f)
		if err != nil {
			return err
		}
		fmt.Printf("%d imported, %d skipped\n", result.Imported, len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Printf("  linha %d: %s\n", s.Line, s.Reason)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("user", "", "user ID")
	importCmd.Flags().String("fonte", "csv", "file source: csv, xlsx or extracao")
}

// --- Snapshots ---

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture last week's snapshot for one user, or for every user with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := referenceDate(cmd)
		if err != nil {
			return err
		}
		snapshots := services.NewSnapshotService(db, dashboardService())

		if all, _ := cmd.Flags().GetBool("all"); all {
			created, err := snapshots.RunWeeklySnapshots(context.Background(), asOf)
			fmt.Printf("%d snapshots created\n", created)
			return err
		}

		user, err := requiredUser(cmd)
		if err != nil {
			return err
		}
		snap, err := snapshots.CaptureFromLedger(user, asOf)
		if err != nil {
			return err
		}
		return printJSON(snap)
	},
}

func init() {
	snapshotCmd.Flags().String("user", "", "user ID")
	snapshotCmd.Flags().Bool("all", false, "capture for every user with a focus state")
}

// --- Cash flow ---

var cashflowCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Print the five-point cash-flow projection",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := requiredUser(cmd)
		if err != nil {
			return err
		}
		asOf, err := referenceDate(cmd)
		if err != nil {
			return err
		}
		dash, _, err := dashboardService().GetDashboard(user, asOf)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(dash.CashFlow)
		}
		fmt.Printf("Caixa %s, mínimo %s, modo %s\n", money.Format(dash.Cash), money.Format(dash.MinimumCash), dash.CashFlow.Mode)
		for _, p := range dash.CashFlow.Points {
			fmt.Printf("  %-8s %16s  %s\n", p.WeekLabel, money.Format(p.Balance), p.ColorBand)
		}
		return nil
	},
}

func init() {
	cashflowCmd.Flags().String("user", "", "user ID")
	cashflowCmd.Flags().Bool("json", false, "print as JSON")
}
