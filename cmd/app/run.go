package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spirit/internal/parser"
	"spirit/internal/util"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [file|expression]...",
	Short: "Run spirit code",
	Long:  `Run spirit code supplied via the command line or a file.`,
	Args:  cobra.MinimumNArgs(1),

	// evaluation errors are reported with source context by reportRunError
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := runReadSources(args)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			return err
		}

		cfg := app.config
		// scripts get the JSON AST as a file next to the source instead
		writeJSON := cfg.DebugJsonAST && !runExpression
		if writeJSON {
			cfg.DebugJsonAST = false
		}

		session, err := newSession(cmd, cfg, cmd.OutOrStdout())
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			return err
		}

		for i, src := range sources {
			if writeJSON {
				if program, err := parser.Parse(src); err == nil {
					if err := parser.WriteASTToJSON(args[i]+".ast.json", program...); err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), err)
						return err
					}
				}
			}

			results, err := session.EvalLine(cmd.Context(), src)
			if runPrint {
				for _, result := range results {
					fmt.Fprintln(cmd.OutOrStdout(), result.String())
				}
			}
			if err != nil {
				reportRunError(cmd, args[i], src, err)
				return err
			}
		}
		return nil
	},
}

func reportRunError(cmd *cobra.Command, name, src string, err error) {
	stderr := cmd.ErrOrStderr()
	var perr *parser.Error
	if errors.As(err, &perr) {
		fmt.Fprintf(stderr, "%s:%d:%d: %s\n", name, perr.Line, perr.Column, perr.Msg)
		fmt.Fprintln(stderr, util.GetContextLines(src, perr.Line, perr.Column))
		return
	}
	fmt.Fprintf(stderr, "%s: ERROR : %v\n", name, err)
}

func runReadSources(args []string) ([]string, error) {
	sources := make([]string, len(args))
	if runExpression {
		copy(sources, args)
		return sources, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sources[i] = string(b)
	}
	return sources, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as spirit expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
}
