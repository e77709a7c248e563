package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oracle-Solution/hl7/pkg/cli"
	"github.com/oracle-Solution/hl7/pkg/config"
	"github.com/oracle-Solution/hl7/pkg/hl7/dictionary"
	"github.com/oracle-Solution/hl7/pkg/hl7/editor"
	"github.com/oracle-Solution/hl7/pkg/telemetry"
	"github.com/oracle-Solution/hl7/pkg/telemetry/tracing"
)

// defaultConfigFile is read when present and --config is not given.
const defaultConfigFile = "hl7edit.yaml"

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	format     string
	hl7Version string
	units      string
	logLevel   string
	noColor    bool
	lf         bool

	// strict is set by the validate command.
	strict bool
}

// app is everything a command needs, built from the flags and the
// configuration file.
type app struct {
	cfg       *config.Config
	telemetry *telemetry.Telemetry
	service   *editor.Service
	format    cli.OutputFormat
	formatter cli.Formatter
	opts      *globalOptions

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "hl7edit",
		Short: "hl7edit - inspect, edit and validate HL7 v2 messages",
		Long: `hl7edit parses HL7 v2 messages, addresses their parts with terser paths
such as PID-5-1 or OBX(2)-5, edits values and validates messages against the
data dictionary of their HL7 version.

Every command reads a message file, or standard input when the file is "-".
Segments may end in CR, LF or CR LF; output uses CR unless --lf is given.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", defaultConfigFile, "config file path")
	flags.StringVarP(&opts.format, "format", "o", "text", "output format: text, json, csv")
	flags.StringVar(&opts.hl7Version, "hl7-version", "", "HL7 version of the messages (default from config)")
	flags.StringVar(&opts.units, "units", "", "caret and span units: bytes or utf16 (default from config)")
	flags.StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&opts.lf, "lf", false, "write segments on separate lines (LF instead of CR)")

	rootCmd.AddCommand(
		newInspectCmd(opts),
		newGetCmd(opts),
		newSetCmd(opts),
		newValidateCmd(opts),
		newWatchCmd(opts),
		newDictionaryCmd(opts),
		newVersionCmd(),
		newCompletionCmd(rootCmd),
	)
	return rootCmd
}

// Execute runs the command line and exits with the code of its error.
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes args and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return cli.ExitOK
	}

	var findings *cli.FindingsError
	if !errors.As(err, &findings) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return cli.ExitCode(err)
}

// loadConfig reads the configuration file with HL7_* overrides. The default
// file may be missing; a file named with --config may not.
func loadConfig(cmd *cobra.Command, opts *globalOptions) (*config.Config, error) {
	path := opts.configFile
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, cli.NewConfigError(opts.configFile, err.Error())
	}

	if opts.units != "" {
		cfg.Editor.Units = opts.units
	}
	if opts.hl7Version != "" {
		cfg.Editor.DefaultVersion = opts.hl7Version
	}
	if opts.logLevel != "" {
		cfg.Telemetry.Logging.Level = opts.logLevel
	}
	if opts.lf {
		cfg.Editor.Terminator = "lf"
	}
	if opts.strict {
		cfg.Editor.Strict = true
	}
	if err := config.Validate(cfg); err != nil {
		return nil, cli.NewConfigError("flags", err.Error())
	}

	return cfg, nil
}

// newApp loads the configuration and builds telemetry, the dictionary and
// the editor service. Callers must call close.
func newApp(cmd *cobra.Command, opts *globalOptions) (*app, error) {
	format, err := cli.ParseFormat(opts.format)
	if err != nil {
		return nil, cli.NewConfigError("format", err.Error())
	}

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	tel, err := telemetry.New(cmd.Context(), cfg.Telemetry, Version, cmd.ErrOrStderr())
	if err != nil {
		return nil, cli.NewConfigError("telemetry", err.Error())
	}

	registry, err := dictionary.Load(cfg.Dictionary.Paths...)
	if err != nil {
		_ = tel.Shutdown(context.Background())
		return nil, cli.NewConfigError("dictionary.paths", err.Error())
	}

	service, err := editor.FromConfig(cfg.Editor, registry,
		editor.WithLogger(tel.Logger()),
		editor.WithMetrics(tel.Metrics()),
		editor.WithTracer(tel.Tracer()),
	)
	if err != nil {
		_ = tel.Shutdown(context.Background())
		return nil, cli.NewConfigError("editor", err.Error())
	}

	return &app{
		cfg:       cfg,
		telemetry: tel,
		service:   service,
		format:    format,
		formatter: cli.NewFormatter(format),
		opts:      opts,
		stdin:     cmd.InOrStdin(),
		stdout:    cmd.OutOrStdout(),
		stderr:    cmd.ErrOrStderr(),
	}, nil
}

// context returns the command context, continuing a trace passed in by a
// parent process.
func (a *app) context(cmd *cobra.Command) context.Context {
	return tracing.ExtractFromEnv(cmd.Context())
}

// lf reports whether output segments end in LF.
func (a *app) lf() bool {
	return a.cfg.Editor.Terminator == "lf"
}

// noColor reports whether findings are printed without color.
func (a *app) noColor() bool {
	return a.opts.noColor || os.Getenv("NO_COLOR") != ""
}

// printer returns a finding printer on stdout.
func (a *app) printer() *cli.FindingPrinter {
	return cli.NewFindingPrinter(a.stdout, a.service.Units(), a.noColor())
}

// read reads a message file named on the command line.
func (a *app) read(name string) (*messageFile, error) {
	f, err := readMessage(name, a.stdin)
	if err != nil {
		return nil, cli.NewCommandError("read", err)
	}
	return f, nil
}

// output writes data in the selected format.
func (a *app) output(data any) error {
	return a.formatter.FormatTo(a.stdout, data)
}

// close flushes telemetry.
func (a *app) close() {
	_ = a.telemetry.Shutdown(context.Background())
}

// version selects the HL7 version of f: --hl7-version, then MSH-12 when the
// dictionary knows it, then the configured default.
func (a *app) version(f *messageFile) string {
	if a.opts.hl7Version != "" {
		return a.opts.hl7Version
	}
	if v := headerVersion(f.Text); v != "" {
		if _, err := a.service.Registry().Version(v); err == nil {
			return v
		}
		a.telemetry.Logger().Debug("Unknown MSH-12 version, using the default",
			"file", f.Name,
			"default", a.service.DefaultVersion(),
		)
	}
	return ""
}
