package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/target/pos-console/config"
	"github.com/target/pos-console/internal/bootstrap"
	apperrors "github.com/target/pos-console/internal/errors"
	obserrors "github.com/target/pos-console/internal/observability/errors"
	"github.com/target/pos-console/internal/observability/statsd"
	"golang.org/x/text/message"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx     context.Context
	Logger  *slog.Logger
	Config  config.AppConfig
	Svc     *bootstrap.Services
	Out     io.Writer
	In      io.Reader
	Printer *message.Printer
}

// app runs one command. openStorage is swapped in tests to share a backend
// between invocations.
type app struct {
	cfg         config.AppConfig
	logger      *slog.Logger
	stdout      io.Writer
	stderr      io.Writer
	stdin       io.Reader
	metrics     statsd.Sink
	openStorage func(ctx context.Context) (*bootstrap.Storage, error)
}

func main() {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger := bootstrap.InitLogger(config.LogConfig{Level: "error", Format: config.LogFormatText}, os.Stderr)
		logger.Error("load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	logger := bootstrap.InitLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	metrics := bootstrap.OpenMetrics(&cfg, logger)
	a := &app{
		cfg:     cfg,
		logger:  logger,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		stdin:   os.Stdin,
		metrics: metrics.Sink,
		openStorage: func(ctx context.Context) (*bootstrap.Storage, error) {
			return bootstrap.OpenStorage(ctx, bootstrap.StorageDeps{Config: &cfg, Logger: logger})
		},
	}
	code := a.run(ctx, os.Args[1:])
	stop()
	if err := metrics.Close(); err != nil {
		logger.Debug("close metrics", "error", err)
	}
	os.Exit(code) //nolint:forbidigo // CLI must propagate command status to callers
}

// run executes args and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		if err := printUsage(a.stderr); err != nil {
			a.logger.Error("print usage failed", "error", err)
		}
		return 2
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		if err := printUsage(a.stdout); err != nil {
			a.logger.Error("print usage failed", "error", err)
		}
		return 0
	}
	cmd, ok := commands()[name]
	if !ok {
		if err := writef(a.stderr, "unknown command %q\n\n", name); err != nil {
			a.logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(a.stderr); err != nil {
			a.logger.Error("print usage failed", "error", err)
		}
		return 2
	}

	start := time.Now()
	err := a.exec(ctx, cmd, args[1:])
	a.record(name, time.Since(start), err)
	if err != nil {
		a.logger.DebugContext(ctx, "command failed", "command", name, "error", err)
		if writeErr := writef(a.stderr, "%s: %s\n", name, describeError(err)); writeErr != nil {
			a.logger.Error("print command error failed", "error", writeErr)
		}
		return 1
	}
	return 0
}

func (a *app) record(name string, elapsed time.Duration, err error) {
	if a.metrics == nil {
		return
	}
	tags := statsd.Tags{"name": name, "result": obserrors.Classify(err)}
	a.metrics.Count("command", 1, tags)
	a.metrics.Timing("command.duration", elapsed, tags)
}

func (a *app) exec(ctx context.Context, cmd command, args []string) error {
	storage, err := a.openStorage(ctx)
	if err != nil {
		return err
	}
	svc, err := bootstrap.BuildServices(bootstrap.ServiceDeps{
		Config:  &a.cfg,
		Storage: storage,
		Logger:  a.logger,
		Metrics: a.metrics,
	})
	if err != nil {
		return errors.Join(err, storage.Close())
	}
	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			a.logger.Warn("close services failed", "error", closeErr)
		}
	}()

	// Restore failures other than an expired session leave the stored
	// session in place; the command reports what it needs.
	if _, restoreErr := svc.Restore(ctx); restoreErr != nil {
		a.logger.WarnContext(ctx, "restore session", "error", restoreErr)
	}

	return cmd.run(&commandContext{
		Ctx:     ctx,
		Logger:  a.logger,
		Config:  a.cfg,
		Svc:     svc,
		Out:     a.stdout,
		In:      a.stdin,
		Printer: message.NewPrinter(a.cfg.Display.Tag()),
	}, args)
}

// describeError prefers the user-facing message of application errors.
func describeError(err error) string {
	msg := apperrors.UserMessage(err)
	if field := apperrors.GetField(err); field != "" {
		return field + ": " + msg
	}
	return msg
}

func commands() map[string]command {
	list := []command{
		{name: "login", description: "Sign in (-user, password from -password, POS_PASSWORD or stdin)", run: runLogin},
		{name: "logout", description: "Sign out and clear stored session state", run: runLogout},
		{name: "whoami", description: "Show the signed-in user and role", run: runWhoami},
		{name: "status", description: "Show the effective partner, store and impersonation state", run: runStatus},
		{name: "watch", description: "Follow session changes made by other processes", run: runWatch},
		{name: "partners", description: "List partners (system administrators)", run: runPartners},
		{name: "impersonate-partner", description: "Enter a partner context (-switch to leave the current one first)", run: runImpersonatePartner},
		{name: "impersonate-store", description: "Enter a store of the current partner", run: runImpersonateStore},
		{name: "exit-store", description: "Leave store impersonation", run: runExitStore},
		{name: "exit-partner", description: "Leave partner impersonation", run: runExitPartner},
		{name: "stores", description: "List stores of the current partner and the selected filter", run: runStores},
		{name: "select-store", description: "Choose the store filter for the current partner", run: runSelectStore},
		{name: "products", description: "List products, or look one up with -barcode", run: runProducts},
		{name: "sales", description: "List sales", run: runSales},
		{name: "sell", description: "Record a sale at the effective store", run: runSell},
		{name: "stock", description: "List stock transactions", run: runStock},
		{name: "adjust-stock", description: "Record a stock adjustment", run: runAdjustStock},
		{name: "expenses", description: "List expenses", run: runExpenses},
		{name: "dashboard", description: "Show dashboard statistics", run: runDashboard},
		{name: "report", description: "Fetch a report page", run: runReport},
	}
	m := make(map[string]command, len(list))
	for _, c := range list {
		m[c.name] = c
	}
	return m
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: posctl <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := writef(w, "  %-22s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}
