package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/orchidfst/fst/internal/config"
	"github.com/orchidfst/fst/pkg/fst"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

// ShellCmd opens an interactive REPL over an already-built FST file, for
// ad-hoc exploration without re-invoking the CLI per query.
func ShellCmd(cfg config.Config) *Command {
	flags := flag.NewFlagSet("shell", flag.ContinueOnError)

	return &Command{
		Flags: flags,
		Usage: "shell <fst-file>",
		Short: "Open an interactive query shell over an FST file",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errors.New("shell: <fst-file> required")
			}
			r, err := fst.Open(args[0])
			if err != nil {
				return fmt.Errorf("shell: %w", err)
			}
			defer r.Close()

			repl := &fstShell{r: r, cfg: cfg, out: o}
			return repl.run()
		},
	}
}

// fstShell is the interactive command loop.
type fstShell struct {
	r     *fst.Reader
	cfg   config.Config
	out   *IO
	liner *liner.State
}

func shellHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fstctl_history")
}

func (s *fstShell) run() error {
	s.liner = liner.NewLiner()
	defer s.liner.Close()

	s.liner.SetCtrlCAborts(true)
	s.liner.SetCompleter(s.completer)

	if f, err := os.Open(shellHistoryFile()); err == nil {
		s.liner.ReadHistory(f)
		f.Close()
	}

	s.out.Println("fstctl shell (map =", s.r.HasOutput(), ")")
	s.out.Println("Type 'help' for available commands.")
	s.out.Println()

	for {
		line, err := s.liner.Prompt("fstctl> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				s.out.Println("\nbye")
				break
			}
			return fmt.Errorf("shell: reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			s.saveHistory()
			return nil
		case "help", "?":
			s.printHelp()
		case "match":
			s.cmdMatch(args)
		case "prefix":
			s.cmdPrefix(args)
		case "range":
			s.cmdRange(args)
		case "fuzzy":
			s.cmdFuzzy(args)
		default:
			s.out.Println("unknown command:", cmd, "(type 'help' for commands)")
		}
	}

	s.saveHistory()
	return nil
}

func (s *fstShell) saveHistory() {
	if path := shellHistoryFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			s.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (s *fstShell) completer(line string) []string {
	commands := []string{"match", "prefix", "range", "fuzzy", "help", "exit"}
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

func (s *fstShell) printHelp() {
	s.out.Println(`commands:
  match <key>                    exact lookup
  prefix <p>                     keys sharing a prefix
  range [min] [max]              keys within a range
  fuzzy <query> [edit-distance]  keys within an edit distance
  help                           show this help
  exit / quit / q                leave the shell`)
}

func (s *fstShell) cmdMatch(args []string) {
	if len(args) < 1 {
		s.out.Println("usage: match <key>")
		return
	}
	it, err := s.r.Match(fst.Unbounded(), fst.Unbounded(), args[0])
	if err != nil {
		s.out.Println("error:", err)
		return
	}
	s.drain(it)
}

func (s *fstShell) cmdPrefix(args []string) {
	if len(args) < 1 {
		s.out.Println("usage: prefix <p>")
		return
	}
	it, err := s.r.Prefix(fst.Unbounded(), fst.Unbounded(), args[0])
	if err != nil {
		s.out.Println("error:", err)
		return
	}
	s.drain(it)
}

func (s *fstShell) cmdRange(args []string) {
	min, max := fst.Unbounded(), fst.Unbounded()
	if len(args) > 0 && args[0] != "-" {
		min = fst.Included([]byte(args[0]))
	}
	if len(args) > 1 && args[1] != "-" {
		max = fst.Included([]byte(args[1]))
	}
	it, err := s.r.Range(min, max)
	if err != nil {
		s.out.Println("error:", err)
		return
	}
	s.drain(it)
}

func (s *fstShell) cmdFuzzy(args []string) {
	if len(args) < 1 {
		s.out.Println("usage: fuzzy <query> [edit-distance]")
		return
	}
	editDistance := s.cfg.DefaultEditDistance
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			s.out.Println("error: invalid edit distance:", args[1])
			return
		}
		editDistance = n
	}
	it, err := s.r.Fuzzy(args[0], editDistance, 0, s.cfg.UseDamerau)
	if err != nil {
		s.out.Println("error:", err)
		return
	}
	s.drain(it)
}

func (s *fstShell) drain(it *fst.Iterator) {
	n, err := drainIterator(s.out, it, s.r.HasOutput())
	if err != nil {
		s.out.Println("error:", err)
		return
	}
	if n == 0 {
		s.out.Println("(no matches)")
	}
}
