package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/pyjs/internal/logging"
	"github.com/aledsdavies/pyjs/pkgs/config"
	"github.com/aledsdavies/pyjs/pkgs/engine"
	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
	"github.com/aledsdavies/pyjs/pkgs/scope"
)

// app holds the streams and the flags shared by every subcommand
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	configPath string
	disable    []string
	blacklist  []string
	debug      bool
	noColor    bool

	logger *slog.Logger
	cfg    *config.Config
	engine *engine.Engine
	colors *palette
}

// exitError carries an exit code through cobra
type exitError struct {
	code   int
	err    error
	source string // compiled source, for error snippets
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(format string, args ...interface{}) error {
	return &exitError{code: ExitInvalidArguments, err: fmt.Errorf(format, args...)}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pyjs",
		Short:         "Compile an indentation-based scripting language to JavaScript",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a .pyjs.yaml or .pyjs.json config file")
	flags.StringSliceVar(&a.disable, "disable", nil, "Disable a construct (DisableIf, DisableFor, DisableWhile, DisableFunctionDef, DisablePrint)")
	flags.StringSliceVar(&a.blacklist, "blacklist", nil, "Forbid declaring the given variable names")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug output")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		a.renderCmd(),
		a.evalCmd(),
		a.tokensCmd(),
		a.astCmd(),
		a.checkCmd(),
	)
	return root
}

// setup resolves configuration and builds the engine
func (a *app) setup() error {
	a.colors = newPalette(ShouldUseColor(a.noColor, a.stdout))
	a.logger = logging.New(a.stderr, a.debug)

	cfg, err := a.loadConfig()
	if err != nil {
		return &exitError{code: ExitInvalidArguments, err: err}
	}
	rules, err := flagRules(a.disable, a.blacklist)
	if err != nil {
		return &exitError{code: ExitInvalidArguments, err: err}
	}
	a.cfg = cfg.WithRules(rules...)

	opts := []engine.Option{
		engine.WithLogger(a.logger),
		engine.WithTabWidth(a.cfg.TabWidth),
	}
	if a.debug {
		opts = append(opts, engine.WithDebug())
	}
	a.engine = engine.New(opts...)
	a.logger.Debug("configured", "version", a.cfg.Version, "rules", len(a.cfg.Rules), "tab_width", a.cfg.TabWidth)
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.Load(a.configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Default(), nil
	}
	if path, ok := config.Find(wd); ok {
		a.logger.Debug("using config", "path", path)
		return config.Load(path)
	}
	return config.Default(), nil
}

// flagRules turns --disable and --blacklist values into rules
func flagRules(disable, blacklist []string) ([]scope.Rule, error) {
	var rules []scope.Rule
	for _, name := range disable {
		p, err := scope.ParsePolicy(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		if p == scope.BlacklistVariable {
			return nil, fmt.Errorf("use --blacklist to forbid variable names")
		}
		rules = append(rules, scope.Disable(p))
	}
	if len(blacklist) > 0 {
		rules = append(rules, scope.Blacklist(blacklist...))
	}
	return rules, nil
}

func (a *app) rules() []scope.Rule {
	return a.cfg.Rules
}

// report prints err and maps it to an exit code
func (a *app) report(err error) int {
	code := ExitInvalidArguments
	var source string
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
		source = ee.source
	}

	colors := a.colors
	if colors == nil {
		colors = newPalette(false)
	}

	if e, ok := cerrors.As(err); ok {
		if source != "" {
			e.WithSource(source)
		}
		fmt.Fprintln(a.stderr, colors.err(e.Detail()))
		return code
	}
	fmt.Fprintln(a.stderr, colors.err("Error: "+err.Error()))
	return code
}
