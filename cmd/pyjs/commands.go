package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/pyjs/pkgs/ast"
	"github.com/aledsdavies/pyjs/pkgs/engine"
	cerrors "github.com/aledsdavies/pyjs/pkgs/errors"
	"github.com/aledsdavies/pyjs/pkgs/generator"
	"github.com/aledsdavies/pyjs/pkgs/lexer"
)

func (a *app) compile(source string) (*engine.Program, error) {
	prog, err := a.engine.Compile(source, a.rules()...)
	if err != nil {
		return nil, &exitError{code: ExitCompileError, err: err, source: source}
	}
	return prog, nil
}

func (a *app) renderCmd() *cobra.Command {
	var (
		format string
		output string
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Compile source to JavaScript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := generator.ParseFormat(format)
			if err != nil {
				return &exitError{code: ExitInvalidArguments, err: err}
			}
			if watch {
				if len(args) == 0 || args[0] == "-" {
					return usageError("--watch needs a file argument")
				}
				return a.watch(cmd.Context(), args[0], func() error {
					return a.renderOnce(args, f, output)
				})
			}
			return a.renderOnce(args, f, output)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(generator.FormatScript), "Output format: script, module or node")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render whenever the input file changes")
	return cmd
}

func (a *app) renderOnce(args []string, format generator.Format, output string) error {
	source, name, err := a.readSource(args)
	if err != nil {
		return err
	}
	prog, err := a.compile(source)
	if err != nil {
		return err
	}
	js, err := generator.Generate(prog, name, format)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = fmt.Fprint(a.stdout, js)
		return err
	}
	mode := os.FileMode(0o644)
	if format == generator.FormatNode {
		mode = 0o755
	}
	if err := os.WriteFile(output, []byte(js), mode); err != nil {
		return &exitError{code: ExitIOError, err: fmt.Errorf("error writing %s: %w", output, err)}
	}
	a.logger.Debug("wrote output", "path", output, "program", prog.ID())
	return nil
}

func (a *app) evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval [file|-]",
		Short: "Evaluate source and print the value of each statement",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _, err := a.readSource(args)
			if err != nil {
				return err
			}
			prog, err := a.compile(source)
			if err != nil {
				return err
			}
			values, err := prog.Evaluate()
			if err != nil {
				return &exitError{code: ExitEvaluationError, err: err}
			}
			for _, v := range values {
				fmt.Fprintln(a.stdout, ast.FormatValue(v))
			}
			return nil
		},
	}
}

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file|-]",
		Short: "Print the token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _, err := a.readSource(args)
			if err != nil {
				return err
			}
			tokens, err := lexer.New(source, lexer.WithTabWidth(a.cfg.TabWidth)).Tokenize()
			for _, tok := range tokens {
				fmt.Fprintln(a.stdout, tok.String())
			}
			if err != nil {
				return &exitError{code: ExitCompileError, err: err, source: source}
			}
			return nil
		},
	}
}

func (a *app) astCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast [file|-]",
		Short: "Print the syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _, err := a.readSource(args)
			if err != nil {
				return err
			}
			prog, err := a.compile(source)
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, ast.Dump(prog.AST))
			return nil
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file|-]",
		Short: "Compile source and report errors without producing output",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, name, err := a.readSource(args)
			if err != nil {
				return err
			}
			prog, err := a.compile(source)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s %s %s\n", a.colors.ok("ok"), name, a.colors.dim(prog.ID()))
			return nil
		},
	}
}

// isCompileError reports whether err came from compiling user source
func isCompileError(err error) bool {
	_, ok := cerrors.As(err)
	return ok
}
