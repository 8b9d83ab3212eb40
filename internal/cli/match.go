package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/orchidfst/fst/internal/config"
	"github.com/orchidfst/fst/pkg/fst"

	flag "github.com/spf13/pflag"
)

// MatchCmd reports whether an exact key is present, printing its value
// in map mode.
func MatchCmd(_ config.Config) *Command {
	flags := flag.NewFlagSet("match", flag.ContinueOnError)
	q := addQueryFlags(flags)

	return &Command{
		Flags: flags,
		Usage: "match <fst-file> <key> [flags]",
		Short: "Look up an exact key",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) < 2 {
				return errors.New("match: <fst-file> <key> required")
			}
			r, err := fst.Open(args[0])
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			defer r.Close()

			min, max := q.bounds()
			it, err := r.Match(min, max, args[1])
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			n, err := drainIterator(o, it, r.HasOutput())
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			if n == 0 {
				o.WarnLLM("key not found", "check the key for typos or confirm it was included at build time")
			}
			return nil
		},
	}
}
