package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	goErrors "github.com/go-errors/errors"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/syrm/srvmaint/app"
	"github.com/syrm/srvmaint/config"
	"github.com/syrm/srvmaint/docker"
)

const usage = `Usage: srvmaint [flags] [command]

Commands:
  menu           interactive maintenance menu (default)
  update-stacks  pull and recreate running compose projects
  preflight      check root, apt, docker and compose

Flags:
`

type options struct {
	configDir      string
	dockerHost     string
	composeCommand string
	logLevel       string
	dryRun         bool
	all            bool
	project        string
	json           bool
	tui            bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts options

	flags := pflag.NewFlagSet("srvmaint", pflag.ContinueOnError)
	flags.StringVar(&opts.configDir, "config-dir", config.Dir(), "directory holding config.yml")
	flags.StringVar(&opts.dockerHost, "docker-host", "", "Docker daemon address, overrides config and DOCKER_HOST")
	flags.StringVar(&opts.composeCommand, "compose-command", "", `compose command, e.g. "docker compose" or docker-compose`)
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print commands instead of running them")
	flags.BoolVarP(&opts.all, "all", "a", false, "update-stacks: update every running project")
	flags.StringVarP(&opts.project, "project", "p", "", "update-stacks: update one project, by name or directory")
	flags.BoolVar(&opts.json, "json", false, "update-stacks: print the report as JSON on stdout")
	flags.BoolVar(&opts.tui, "tui", false, "pick the project to update in a full-screen table")
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	logFile, err := openLog(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{AddSource: true, Level: cfg.SlogLevel()}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dispatch(ctx, flags.Arg(0), opts, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "srvmaint failed", slog.Any("error", err), slog.String("stack", goErrors.Wrap(err, 0).ErrorStack()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	logger.InfoContext(ctx, "srvmaint is over")

	return 0
}

func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configDir)
	if err != nil {
		return cfg, err
	}

	if opts.dockerHost != "" {
		cfg.DockerHost = opts.dockerHost
	}
	if opts.composeCommand != "" {
		cfg.ComposeCommand = opts.composeCommand
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	cfg.DryRun = opts.dryRun

	return cfg, cfg.Validate()
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return file, nil
}

func dispatch(ctx context.Context, command string, opts options, cfg config.Config, logger *slog.Logger) error {
	client, err := docker.NewClient(ctx, cfg.DockerHost, logger)
	if err != nil {
		return err
	}

	// JSON goes to stdout alone, prompts and progress move to stderr.
	var out io.Writer = os.Stdout
	if opts.json {
		out = os.Stderr
	}

	a := app.NewApp(ctx, cfg, client, os.Stdin, out, logger)
	defer a.Close()

	stackOpts := app.StackOptions{
		All:         opts.all,
		Project:     opts.project,
		UseTUI:      opts.tui,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
		Quiet:       opts.json,
	}

	switch command {
	case "", "menu":
		return a.RunMenu(ctx, stackOpts)
	case "update-stacks":
		report, err := a.UpdateStacks(ctx, stackOpts)
		if err != nil {
			return err
		}
		if opts.json {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
		}
		return app.CheckReport(report)
	case "preflight":
		if !a.Preflight(ctx) {
			return errors.New("preflight checks failed")
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q, see --help", command)
	}
}
