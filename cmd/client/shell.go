package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const shellPrompt = "cipherhack> "

func newShellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts)
		},
	}
}

// runShell reads commands until exit or EOF. Each line runs as a fresh
// invocation of the root command with the shell's global flags.
func runShell(cmd *cobra.Command, opts *rootOptions) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          shellPrompt,
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "CipherHack shell. Type help for commands, exit to quit.")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit := execLine(cmd.Context(), opts, line, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()); quit {
			return nil
		}
	}
}

// execLine runs one shell line and reports whether the shell should exit.
func execLine(ctx context.Context, opts *rootOptions, line string, in io.Reader, out, errOut io.Writer) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "exit", "quit":
		_, _ = fmt.Fprintln(out, "Bye")
		return true
	case "help":
		_, _ = fmt.Fprintln(out, "Available commands: generate <topic>, chat <question>, idea save|list, todo add|list|done, note add|list, exit")
		return false
	case "shell":
		_, _ = fmt.Fprintln(errOut, "error: already in a shell")
		return false
	}

	root := newRootCmd()
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(append(opts.flags(), args...))
	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(errOut, "error:", err)
	}
	return false
}

// flags renders the global options so a nested invocation inherits them.
func (o *rootOptions) flags() []string {
	f := []string{
		"--url", o.url,
		"--ca", o.caFile,
		"--timeout", o.timeout.String(),
		"--width", strconv.Itoa(o.width),
	}
	if o.raw {
		f = append(f, "--raw")
	}
	return f
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cipherhack", "history")
}
