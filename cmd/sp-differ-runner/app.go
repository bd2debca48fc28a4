package main

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/shuv-amp/sp-differ/application/config"
	"github.com/shuv-amp/sp-differ/application/template"
	"github.com/shuv-amp/sp-differ/domain/errors"
	"github.com/shuv-amp/sp-differ/domain/ports"
	"github.com/shuv-amp/sp-differ/host"
	"github.com/shuv-amp/sp-differ/infrastructure/caseio"
	"github.com/shuv-amp/sp-differ/log"
)

// exitFailure is the exit status for every failed command.
const exitFailure = 2

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	errCaseRequired    = stdErrors.New("case path required")
	errUnexpectedArg   = stdErrors.New("unexpected argument")
	errOutputsMismatch = stdErrors.New("outputs differ")
)

// runner holds the state shared by all commands.
type runner struct {
	stdout    io.Writer
	stderr    io.Writer
	cfg       *config.Config
	logger    *slog.Logger
	reader    ports.CasePayloadReader
	renderer  ports.TemplateEngine
	opener    ports.WorkerOpener
	newOpener func(cfg *config.Config, logger *slog.Logger) ports.WorkerOpener
}

func newLoader(cfg *config.Config, logger *slog.Logger) ports.WorkerOpener {
	opts := []host.Option{
		host.WithLogger(logger),
		host.WithAliases(cfg.Workers),
		host.WithExpectedVersion(cfg.ExpectedAPIVersion),
	}
	if cfg.MaxReplySize > 0 {
		opts = append(opts, host.WithMaxReplySize(cfg.MaxReplySize))
	}
	return host.NewLoader(opts...)
}

func newApp(r *runner) *cli.App {
	return &cli.App{
		Name:      "sp-differ-runner",
		Usage:     "run and compare sp_differ workers",
		Version:   version,
		Writer:    r.stdout,
		ErrWriter: r.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"SP_DIFFER_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
			},
		},
		Before: r.setup,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a case through one worker and validate the reply",
				ArgsUsage: "<case>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "worker", Aliases: []string{"w"}, Usage: "worker alias or path"},
					&cli.BoolFlag{Name: "json", Usage: "print the reply as JSON"},
				},
				Action: r.runCase,
			},
			{
				Name:      "compare",
				Usage:     "run a case through two workers and compare the replies",
				ArgsUsage: "<case>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "left", Aliases: []string{"l"}, Usage: "left worker alias or path"},
					&cli.StringFlag{Name: "right", Aliases: []string{"r"}, Usage: "right worker alias or path"},
				},
				Action: r.compare,
			},
			{
				Name:      "inspect",
				Usage:     "parse a case file and print its contents",
				ArgsUsage: "<case>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print the case as JSON"},
				},
				Action: r.inspect,
			},
			{
				Name:   "workers",
				Usage:  "list worker aliases",
				Action: r.listWorkers,
			},
			{
				Name:   "version",
				Usage:  "print the runner version and worker API version",
				Action: r.printVersion,
			},
			{
				Name:   "schema",
				Usage:  "print the config file JSON schema",
				Action: r.printSchema,
			},
		},
		// Errors are reported by execute; keep urfave from calling os.Exit.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// setup loads configuration and builds the logger and worker opener.
func (r *runner) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.LogFormat = c.String("log-format")
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return &errors.ConfigError{Field: "log_level", Err: err}
	}

	r.cfg = cfg
	r.logger = log.NewLogger(r.stderr, log.WithLevel(level), log.WithFormat(cfg.LogFormat))
	if r.reader == nil {
		r.reader = caseio.NewFileReader()
	}
	if r.renderer == nil {
		r.renderer = template.NewGoTemplateEngine()
	}
	if r.opener == nil {
		r.opener = r.newOpener(cfg, r.logger)
	}
	return nil
}

// execute runs the app and maps errors to the exit status.
func execute(ctx context.Context, r *runner, args []string) int {
	err := newApp(r).RunContext(ctx, args)
	if err == nil {
		return 0
	}

	var mismatch *mismatchError
	if stdErrors.As(err, &mismatch) {
		mismatch.print(r.stderr)
		return exitFailure
	}

	if r.logger != nil {
		detail := errors.ToErrorDetail(err)
		r.logger.Debug("command failed", "type", detail.Type, "code", detail.Code, "error", err)
	}
	fmt.Fprintf(r.stderr, "FAIL: %v\n", err)
	return exitFailure
}

// casePath returns the single positional argument.
func casePath(c *cli.Context) (string, error) {
	switch c.Args().Len() {
	case 0:
		return "", errCaseRequired
	case 1:
		return c.Args().First(), nil
	default:
		return "", fmt.Errorf("%w: %s", errUnexpectedArg, c.Args().Get(1))
	}
}

func (r *runner) readCase(c *cli.Context) ([]byte, error) {
	path, err := casePath(c)
	if err != nil {
		return nil, err
	}
	return r.reader.ReadCasePayload(path)
}

func (r *runner) close(ctx context.Context, w ports.Worker) {
	if err := w.Close(ctx); err != nil {
		r.logger.WarnContext(ctx, "worker close failed", "worker", w.Name(), "error", err)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
