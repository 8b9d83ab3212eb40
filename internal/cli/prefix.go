package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/orchidfst/fst/internal/config"
	"github.com/orchidfst/fst/pkg/fst"

	flag "github.com/spf13/pflag"
)

// PrefixCmd lists every key sharing a UTF-8 code-point prefix, within an
// optional bound range.
func PrefixCmd(_ config.Config) *Command {
	flags := flag.NewFlagSet("prefix", flag.ContinueOnError)
	q := addQueryFlags(flags)

	return &Command{
		Flags: flags,
		Usage: "prefix <fst-file> <prefix> [flags]",
		Short: "List keys sharing a prefix",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) < 2 {
				return errors.New("prefix: <fst-file> <prefix> required")
			}
			r, err := fst.Open(args[0])
			if err != nil {
				return fmt.Errorf("prefix: %w", err)
			}
			defer r.Close()

			min, max := q.bounds()
			it, err := r.Prefix(min, max, args[1])
			if err != nil {
				return fmt.Errorf("prefix: %w", err)
			}
			_, err = drainIterator(o, it, r.HasOutput())
			if err != nil {
				return fmt.Errorf("prefix: %w", err)
			}
			return nil
		},
	}
}
