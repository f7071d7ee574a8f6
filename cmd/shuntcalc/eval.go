package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lemonberrylabs/shuntcalc/pkg/keypad"
	"github.com/lemonberrylabs/shuntcalc/pkg/shunt"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval EXPRESSION...",
		Short: "Evaluate expressions and print their results",
		Long: "Evaluate each argument as an expression and print one result per line.\n" +
			"Use ~ (or " + string(shunt.NegGlyph) + ") for unary negation; - always subtracts.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				v, err := shunt.Solve(keypad.Normalize(arg))
				if err != nil {
					return fmt.Errorf("%s: %w", arg, err)
				}
				fmt.Fprintln(out, keypad.FormatResult(v))
			}
			return nil
		},
	}
}

func newPostfixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "postfix EXPRESSION",
		Short: "Print the postfix form of an expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := shunt.Postfix(keypad.Normalize(args[0]))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions read line by line from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// repl evaluates each non-blank input line independently.
func repl(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := shunt.Solve(keypad.Normalize(line))
		if err != nil {
			kind, _ := shunt.KindOf(err)
			fmt.Fprintf(out, "%s: %s\n", keypad.ErrorText, kind)
			continue
		}
		fmt.Fprintln(out, keypad.FormatResult(v))
	}
	return sc.Err()
}
