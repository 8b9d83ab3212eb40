package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/orchidfst/fst/internal/config"
	"github.com/orchidfst/fst/pkg/fst"

	flag "github.com/spf13/pflag"
)

// RangeCmd lists every key within a bound range, unfiltered.
func RangeCmd(_ config.Config) *Command {
	flags := flag.NewFlagSet("range", flag.ContinueOnError)
	q := addQueryFlags(flags)

	return &Command{
		Flags: flags,
		Usage: "range <fst-file> [flags]",
		Short: "List keys within [--min, --max]",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errors.New("range: <fst-file> required")
			}
			r, err := fst.Open(args[0])
			if err != nil {
				return fmt.Errorf("range: %w", err)
			}
			defer r.Close()

			min, max := q.bounds()
			it, err := r.Range(min, max)
			if err != nil {
				return fmt.Errorf("range: %w", err)
			}
			_, err = drainIterator(o, it, r.HasOutput())
			if err != nil {
				return fmt.Errorf("range: %w", err)
			}
			return nil
		},
	}
}
