package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/clinvue/visitinsights/internal/adapters/auditlog"
	"github.com/clinvue/visitinsights/internal/adapters/csvstore"
	"github.com/clinvue/visitinsights/internal/adapters/database"
	"github.com/clinvue/visitinsights/internal/application/services"
	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/domain/policy"
	"github.com/clinvue/visitinsights/internal/domain/repositories"
	"github.com/clinvue/visitinsights/internal/infrastructure/clients/postgres"
	"github.com/clinvue/visitinsights/internal/infrastructure/observability"
	"github.com/clinvue/visitinsights/pkg/config"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

func main() {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "visitinsights",
		Short:         "Access-controlled patient visit queries, trend reports, and audit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newConsoleCmd())
	root.AddCommand(newReportCmd())
	return root
}

// app bundles the wired core services for the presentation commands.
type app struct {
	cfg     *config.Config
	policy  *policy.Policy
	fields  *entities.FieldMap
	login   *services.LoginService
	records *services.RecordService
	trends  *services.TrendService
}

// bootstrap loads configuration, initializes logging and metrics, loads the
// datasets through the configured backend, and wires the core services.
func bootstrap(ctx context.Context) (*app, func(context.Context), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)

	shutdown := func(context.Context) {}
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		otelShutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry, continuing without it")
		} else {
			shutdown = func(ctx context.Context) {
				ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()
				if err := otelShutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return nil, nil, err
	}

	var source repositories.DatasetSource
	switch cfg.Dataset.Backend {
	case config.BackendPostgres:
		client, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		prev := shutdown
		shutdown = func(ctx context.Context) {
			client.Close()
			prev(ctx)
		}
		source = database.NewDatasetAdapter(client)
	default:
		source = csvstore.NewDatasetAdapter(
			cfg.Dataset.VisitsPath, cfg.Dataset.NotesPath, cfg.Dataset.CredentialsPath)
	}

	data, err := services.LoadDataset(ctx, source, source)
	if err != nil {
		return nil, nil, err
	}
	auth, err := services.NewAuthService(ctx, source)
	if err != nil {
		return nil, nil, err
	}

	fields := entities.DefaultFieldMap()
	pol := policy.Default(fields)
	sessions := services.NewSessionService()
	audit := services.NewAuditService(auditlog.NewFileSink(cfg.Audit.LogPath), metrics)

	return &app{
		cfg:     cfg,
		policy:  pol,
		fields:  fields,
		login:   services.NewLoginService(auth, sessions, audit, metrics),
		records: services.NewRecordService(data, fields, pol, sessions, audit, metrics),
		trends:  services.NewTrendService(data, pol, sessions, audit, metrics),
	}, shutdown, nil
}

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive login and query session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, shutdown, err := bootstrap(ctx)
			if err != nil {
				log.Error().Err(err).Msg("startup failed")
				return err
			}
			defer shutdown(ctx)
			return runConsole(ctx, a, bufio.NewScanner(os.Stdin), os.Stdout)
		},
	}
}

func newReportCmd() *cobra.Command {
	var username, password, granularity, department string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "One-shot visit trend report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, shutdown, err := bootstrap(ctx)
			if err != nil {
				log.Error().Err(err).Msg("startup failed")
				return err
			}
			defer shutdown(ctx)

			g, err := entities.ParseGranularity(granularity)
			if err != nil {
				return err
			}

			if _, err := a.login.Login(ctx, username, password); err != nil && !apperrors.IsType(err, apperrors.ErrorTypeAudit) {
				return err
			}
			defer func() {
				if err := a.login.Logout(ctx); err != nil {
					log.Warn().Err(err).Msg("failed to journal logout")
				}
			}()

			buckets, skipped, err := a.trends.Aggregate(ctx, g, department)
			if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeAudit) {
				return err
			}
			if apperrors.IsType(err, apperrors.ErrorTypeAudit) {
				fmt.Fprintln(os.Stderr, "warning: result shown but the audit trail could not be written")
			}

			printBuckets(os.Stdout, buckets, skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "login username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "login password")
	cmd.Flags().StringVarP(&granularity, "granularity", "g", "year", "bucket width: year or month")
	cmd.Flags().StringVarP(&department, "department", "d", "", "restrict to one department")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("password")
	return cmd
}

func printBuckets(w *os.File, buckets []entities.TrendBucket, skipped int) {
	if len(buckets) == 0 {
		fmt.Fprintln(w, "no visits matched")
		return
	}
	fmt.Fprintf(w, "%-10s %s\n", "period", "visits")
	for _, b := range buckets {
		fmt.Fprintf(w, "%-10s %d\n", b.Period, b.Count)
	}
	if skipped > 0 {
		fmt.Fprintf(w, "(%d records skipped: unparseable visit date)\n", skipped)
	}
}

const menu = `
 1) retrieve a patient field
 2) view notes for a patient on a date
 3) list patient IDs
 4) count visits on a date
 5) visit trends
 0) logout and exit
`

func runConsole(ctx context.Context, a *app, in *bufio.Scanner, out *os.File) error {
	sess, err := promptLogin(ctx, a, in, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Welcome, %s (%s)\n", sess.Username, sess.Role)

	defer func() {
		if err := a.login.Logout(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to journal logout")
		}
	}()

	for {
		fmt.Fprint(out, menu, "> ")
		if !in.Scan() {
			return in.Err()
		}
		choice := strings.TrimSpace(in.Text())
		if choice == "0" {
			return nil
		}
		dispatch(ctx, a, in, out, choice)
	}
}

func promptLogin(ctx context.Context, a *app, in *bufio.Scanner, out *os.File) (entities.Session, error) {
	for {
		username := prompt(in, out, "Username: ")
		password := prompt(in, out, "Password: ")
		sess, err := a.login.Login(ctx, username, password)
		switch {
		case err == nil:
			return sess, nil
		case apperrors.IsType(err, apperrors.ErrorTypeAudit):
			fmt.Fprintln(out, "warning: logged in, but the audit trail could not be written")
			return sess, nil
		default:
			fmt.Fprintf(out, "login failed: %v\n", err)
		}
	}
}

func prompt(in *bufio.Scanner, out *os.File, label string) string {
	fmt.Fprint(out, label)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func dispatch(ctx context.Context, a *app, in *bufio.Scanner, out *os.File, choice string) {
	switch choice {
	case "1":
		pid := prompt(in, out, "Patient ID: ")
		field := prompt(in, out, fmt.Sprintf("Field (%s): ", strings.Join(a.fields.Names(), ", ")))
		values, err := a.records.GetField(ctx, pid, field)
		if !report(out, err) {
			return
		}
		if len(values) == 0 {
			fmt.Fprintf(out, "no %s values for %s\n", field, pid)
			return
		}
		for _, v := range values {
			fmt.Fprintln(out, v)
		}
	case "2":
		pid := prompt(in, out, "Patient ID: ")
		date := prompt(in, out, "Date (MM/DD/YYYY): ")
		notes, err := a.records.GetNotes(ctx, pid, date)
		if !report(out, err) {
			return
		}
		if len(notes) == 0 {
			fmt.Fprintf(out, "no notes for %s on %s\n", pid, date)
			return
		}
		for _, n := range notes {
			fmt.Fprintf(out, "visit %s note %s [%s]\n  %s\n", n.VisitID, n.NoteID, n.NoteType, n.Text)
		}
	case "3":
		ids, err := a.records.ListPatients(ctx)
		if !report(out, err) {
			return
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
	case "4":
		date := prompt(in, out, "Date (MM/DD/YYYY): ")
		count, err := a.records.CountVisitsOnDay(ctx, date)
		if !report(out, err) {
			return
		}
		fmt.Fprintf(out, "%d visits on %s\n", count, date)
	case "5":
		granularity := prompt(in, out, "Granularity (year/month): ")
		g, err := entities.ParseGranularity(granularity)
		if err != nil {
			fmt.Fprintln(out, err)
			return
		}
		department := prompt(in, out, "Department (blank for all): ")
		buckets, skipped, err := a.trends.Aggregate(ctx, g, department)
		if !report(out, err) {
			return
		}
		printBuckets(out, buckets, skipped)
	default:
		fmt.Fprintf(out, "unknown choice %q\n", choice)
	}
}

// report prints err and tells the caller whether the operation's result is
// usable. Audit write failures come back with a valid result, so they only
// produce a warning.
func report(out *os.File, err error) bool {
	if err == nil {
		return true
	}
	if apperrors.IsType(err, apperrors.ErrorTypeAudit) {
		fmt.Fprintln(out, "warning: result shown but the audit trail could not be written")
		return true
	}
	fmt.Fprintln(out, err)
	return false
}
