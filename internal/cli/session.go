package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const sessionHelp = `Commands:
  add <table>                       add a row with default values
  set <table> <row> <field> <json>  override one cell
  delete <table> <row>              delete a row
  rename <table> <old> <new>        rename a row
  get <table> <row> [field]         show effective values
  tables                            list tables
  rows <table>                      list rows
  undo                              revert the last change
  redo                              reapply the last undone change
  save                              write the workspace
  help                              show this help
  quit                              save if needed and leave`

// errQuit ends a session loop.
var errQuit = errors.New("quit")

func newSessionCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Edit interactively with undo and redo",
		Long: "Session reads commands from standard input, one per line, against a\n" +
			"single open project. Undo and redo act on the changes of this session.\n" +
			"Unsaved changes are saved on quit or end of input.\n\n" + sessionHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd, flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s := &session{env: e, ctx: ctx, out: cmd.OutOrStdout(), asJSON: flags.jsonMode}
			if err := s.run(cmd.InOrStdin()); err != nil {
				return classify("session", err)
			}
			if err := e.project.Close(ctx); err != nil {
				return classify("save", err)
			}
			return nil
		},
	}
}

// session is one interactive editing loop over an open project.
type session struct {
	env    *env
	ctx    context.Context
	out    io.Writer
	asJSON bool
}

func (s *session) run(in io.Reader) error {
	prompt := color.New(color.FgCyan)
	red := color.New(color.FgRed)
	s.env.logger.Debug("session started")

	scanner := bufio.NewScanner(in)
	for {
		prompt.Fprint(s.out, "ledger> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		err := s.exec(line)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			red.Fprintf(s.out, "error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// exec runs one session line.
func (s *session) exec(line string) error {
	name, rest, _ := strings.Cut(line, " ")
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	switch name {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(s.out, sessionHelp)
	case "tables":
		return s.env.listTables(s.out, s.asJSON)
	case "rows":
		args, err := splitArgs(rest, 1, "rows <table>")
		if err != nil {
			return err
		}
		return s.env.listRows(s.out, args[0], s.asJSON)
	case "get":
		fields := strings.Fields(rest)
		if len(fields) < 2 || len(fields) > 3 {
			return usageError("get <table> <row> [field]")
		}
		field := ""
		if len(fields) == 3 {
			field = fields[2]
		}
		return s.env.showRow(s.out, fields[0], fields[1], field, s.asJSON)
	case "add":
		args, err := splitArgs(rest, 1, "add <table>")
		if err != nil {
			return err
		}
		id, err := s.env.addRow(args[0])
		if err != nil {
			return err
		}
		green.Fprintf(s.out, "added %s\n", id)
	case "set":
		args, err := splitRest(rest, 4, "set <table> <row> <field> <json>")
		if err != nil {
			return err
		}
		return s.env.setCell(args[0], args[1], args[2], args[3])
	case "delete":
		args, err := splitArgs(rest, 2, "delete <table> <row>")
		if err != nil {
			return err
		}
		return s.env.deleteRow(args[0], args[1])
	case "rename":
		args, err := splitArgs(rest, 3, "rename <table> <old> <new>")
		if err != nil {
			return err
		}
		return s.env.renameRow(args[0], args[1], args[2])
	case "undo":
		if !s.env.project.Editor().Undo() {
			yellow.Fprintln(s.out, "nothing to undo")
		}
	case "redo":
		if !s.env.project.Editor().Redo() {
			yellow.Fprintln(s.out, "nothing to redo")
		}
	case "save":
		if err := s.env.project.Save(s.ctx); err != nil {
			return err
		}
		green.Fprintln(s.out, "saved")
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	return nil
}

// splitArgs splits s into exactly n words.
func splitArgs(s string, n int, usage string) ([]string, error) {
	args := strings.Fields(s)
	if len(args) != n {
		return nil, usageError(usage)
	}
	return args, nil
}

// splitRest splits s into n arguments: n-1 words and then the remainder of
// the line, so a trailing JSON literal may contain spaces.
func splitRest(s string, n int, usage string) ([]string, error) {
	args := make([]string, 0, n)
	rest := strings.TrimSpace(s)
	for len(args) < n-1 {
		word, tail, ok := strings.Cut(rest, " ")
		if !ok || word == "" {
			return nil, usageError(usage)
		}
		args = append(args, word)
		rest = strings.TrimSpace(tail)
	}
	if rest == "" {
		return nil, usageError(usage)
	}
	return append(args, rest), nil
}

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}
