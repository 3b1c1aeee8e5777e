package main

import (
	"cmp"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atinyakov/cipherhack/internal/client"
	"github.com/atinyakov/cipherhack/internal/models"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	url     string
	caFile  string
	timeout time.Duration
	raw     bool
	width   int
}

// wrap returns the word-wrap width for rendered text.
func (o *rootOptions) wrap() int {
	if o.width > 0 {
		return o.width
	}
	return client.TerminalWidth(os.Stdout.Fd())
}

func (o *rootOptions) client() (*client.Client, error) {
	hc, err := client.NewHTTPClient(o.caFile, o.timeout)
	if err != nil {
		return nil, err
	}
	return client.New(hc, o.url), nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "cipherhack",
		Short: "CipherHack: your hackathon assistant",
		Long: `cipherhack generates hackathon ideas with Gemini and keeps ideas,
todos and sticky notes in the CipherHack workspace.`,
		Version:       fmt.Sprintf("%s (built %s)", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A")),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.url, "url", "http://localhost:8080", "server base URL")
	pf.StringVar(&opts.caFile, "ca", "", "CA certificate to trust for an HTTPS server")
	pf.DurationVar(&opts.timeout, "timeout", 0, "request timeout (0 = none)")
	pf.BoolVar(&opts.raw, "raw", false, "print generated text without markdown rendering")
	pf.IntVar(&opts.width, "width", 0, "word-wrap width for rendered text (0 = terminal width)")

	root.AddCommand(
		newGenerateCmd(opts),
		newChatCmd(opts),
		newIdeaCmd(opts),
		newTodoCmd(opts),
		newNoteCmd(opts),
		newShellCmd(opts),
	)
	return root
}

// textArg joins args, or prompts on stdin when there are none.
func textArg(cmd *cobra.Command, args []string, label string) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		var err error
		text, err = client.PromptText(cmd.InOrStdin(), cmd.ErrOrStderr(), label)
		if err != nil {
			return "", err
		}
	}
	if text == "" {
		return "", fmt.Errorf("%s must not be empty", strings.ToLower(label))
	}
	return text, nil
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <topic>",
		Short: "Generate hackathon ideas for a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.TrimSpace(strings.Join(args, " "))
			if topic == "" {
				return fmt.Errorf("please enter a topic before generating ideas")
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			g, err := c.Generate(cmd.Context(), topic)
			if err != nil {
				return err
			}
			return client.WriteGeneration(cmd.OutOrStdout(), g, opts.wrap(), opts.raw)
		},
	}
}

func newChatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <question>",
		Short: "Ask Gemini a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			g, err := c.Chat(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), client.Label("Gemini:")+" ")
			return client.WriteGeneration(cmd.OutOrStdout(), g, opts.wrap(), opts.raw)
		},
	}
}

func newIdeaCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "idea", Short: "Save and list ideas"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "save [text]",
			Short: "Save an idea (reads stdin when no text is given)",
			RunE: func(cmd *cobra.Command, args []string) error {
				content, err := textArg(cmd, args, "Idea")
				if err != nil {
					return err
				}
				c, err := opts.client()
				if err != nil {
					return err
				}
				idea, err := c.SaveIdea(cmd.Context(), content)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Idea saved successfully! (id %s)\n", idea.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List saved ideas",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				ideas, err := c.ListIdeas(cmd.Context())
				if err != nil {
					return err
				}
				client.WriteIdeas(cmd.OutOrStdout(), ideas)
				return nil
			},
		},
	)
	return cmd
}

func newTodoCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "todo", Short: "Manage the todo list"}

	var undo bool
	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task done (requires toggle write-back on the server)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			if err := c.SetTodoDone(cmd.Context(), models.ID(args[0]), !undo); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Task updated!")
			return nil
		},
	}
	done.Flags().BoolVar(&undo, "undo", false, "mark the task as not done")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <task>",
			Short: "Add a task",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				task, err := textArg(cmd, args, "Task")
				if err != nil {
					return err
				}
				c, err := opts.client()
				if err != nil {
					return err
				}
				if err := c.AddTodo(cmd.Context(), task); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Task added!")
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List tasks",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				todos, err := c.ListTodos(cmd.Context())
				if err != nil {
					return err
				}
				client.WriteTodos(cmd.OutOrStdout(), todos)
				return nil
			},
		},
		done,
	)
	return cmd
}

func newNoteCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "note", Short: "Manage sticky notes"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [text]",
			Short: "Add a note (reads stdin when no text is given)",
			RunE: func(cmd *cobra.Command, args []string) error {
				content, err := textArg(cmd, args, "Note")
				if err != nil {
					return err
				}
				c, err := opts.client()
				if err != nil {
					return err
				}
				if err := c.SaveNote(cmd.Context(), content); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Note added!")
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List notes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				notes, err := c.ListNotes(cmd.Context())
				if err != nil {
					return err
				}
				client.WriteNotes(cmd.OutOrStdout(), notes)
				return nil
			},
		},
	)
	return cmd
}
