package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ReviewTriage/internal/app"
	"ReviewTriage/internal/config"
	"ReviewTriage/internal/logging"
	"ReviewTriage/internal/usecase"
)

var version = "dev"

var (
	flagConfig string
	flagEvery  string
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reviewtriage",
		Short:         "Triage app reviews and tweets into tickets",
		Long:          "reviewtriage fetches user feedback, filters spam, classifies and deduplicates it, and files tickets.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file (defaults to $REVIEW_TRIAGE_CONFIG)")

	watch := &cobra.Command{
		Use:   "watch <source> [parameters]",
		Short: "Re-run a source on an interval until interrupted",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWatch,
	}
	watch.Flags().StringVar(&flagEvery, "every", "", "override the scheduler interval (e.g. 6h)")

	root.AddCommand(
		&cobra.Command{
			Use:   "run <source> [parameters]",
			Short: "Fetch one batch from a source and create tickets",
			Args:  cobra.MinimumNArgs(1),
			RunE:  runOnce,
		},
		watch,
		&cobra.Command{
			Use:   "sources",
			Short: "List configured sources",
			Args:  cobra.NoArgs,
			RunE:  runSources,
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "reviewtriage %s\n", version)
			},
		},
	)
	return root
}

func loadConfig() config.Config {
	if flagConfig != "" {
		return config.LoadFile(flagConfig)
	}
	return config.Load()
}

func newApplication(cmd *cobra.Command, cfg config.Config) (*app.Application, error) {
	logger := logging.New(cfg.Logging.Level)
	return app.New(cmd.Context(), cfg, logger)
}

func runOnce(cmd *cobra.Command, args []string) error {
	application, err := newApplication(cmd, loadConfig())
	if err != nil {
		return err
	}

	report, err := application.Run(cmd.Context(), args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if flagEvery != "" {
		every, err := parseInterval(flagEvery)
		if err != nil {
			return err
		}
		cfg.Scheduler.Interval = every
	}

	application, err := newApplication(cmd, cfg)
	if err != nil {
		return err
	}
	return application.Watch(cmd.Context(), args[0], strings.Join(args[1:], " "))
}

func runSources(cmd *cobra.Command, _ []string) error {
	application, err := newApplication(cmd, loadConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLABEL\tCONTEXT\tMAX\tAI CHECK")
	for _, src := range application.Sources() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\n", src.Name, src.Label, src.DomainContext, src.MaxCount, src.DetectAI)
	}
	return w.Flush()
}

func printReport(out io.Writer, report usecase.Report) {
	switch {
	case report.Help:
		fmt.Fprintf(out, "run %s: usage posted\n", report.RunID)
		return
	case report.Aborted:
		fmt.Fprintf(out, "run %s: stopped on invalid parameters\n", report.RunID)
		return
	}

	c := report.Counters
	fmt.Fprintf(out, "run %s (%s): %d fetched, %d accepted, %d tickets created, %d failed\n",
		report.RunID, report.Source, report.Fetched, c.Accepted(), c.TicketsCreated, c.TicketFailures)
	for _, ref := range report.Tickets {
		fmt.Fprintf(out, "  %s\n", ref)
	}
}
