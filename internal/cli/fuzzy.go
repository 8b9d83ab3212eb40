package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/orchidfst/fst/internal/config"
	"github.com/orchidfst/fst/pkg/fst"

	flag "github.com/spf13/pflag"
)

// FuzzyCmd lists every key within an edit distance of a query string.
func FuzzyCmd(cfg config.Config) *Command {
	flags := flag.NewFlagSet("fuzzy", flag.ContinueOnError)
	editDistance := flags.Int("edit-distance", cfg.DefaultEditDistance, "Maximum edit distance")
	sharedPrefixLen := flags.Int("shared-prefix-len", 0, "Require this many leading code points to match literally")
	damerau := flags.Bool("damerau", cfg.UseDamerau, "Use Damerau-Levenshtein (also matches adjacent transpositions)")

	return &Command{
		Flags: flags,
		Usage: "fuzzy <fst-file> <query> [flags]",
		Short: "List keys within an edit distance of a query",
		Long: "Lists every key within --edit-distance of <query>, using Levenshtein\n" +
			"distance or, with --damerau, Damerau-Levenshtein distance (which also\n" +
			"treats an adjacent transposition as a single edit).",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) < 2 {
				return errors.New("fuzzy: <fst-file> <query> required")
			}
			r, err := fst.Open(args[0])
			if err != nil {
				return fmt.Errorf("fuzzy: %w", err)
			}
			defer r.Close()

			it, err := r.Fuzzy(args[1], *editDistance, *sharedPrefixLen, *damerau)
			if err != nil {
				return fmt.Errorf("fuzzy: %w", err)
			}
			_, err = drainIterator(o, it, r.HasOutput())
			if err != nil {
				return fmt.Errorf("fuzzy: %w", err)
			}
			return nil
		},
	}
}
