package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/orchidfst/fst/internal/config"
	"github.com/orchidfst/fst/pkg/fst"

	flag "github.com/spf13/pflag"
)

// DotCmd renders an FST as Graphviz DOT, to stdout or a file.
func DotCmd(_ config.Config) *Command {
	flags := flag.NewFlagSet("dot", flag.ContinueOnError)
	out := flags.StringP("out", "o", "", "Write DOT to this file instead of stdout")

	return &Command{
		Flags: flags,
		Usage: "dot <fst-file> [flags]",
		Short: "Render an FST as Graphviz DOT",
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errors.New("dot: <fst-file> required")
			}
			r, err := fst.Open(args[0])
			if err != nil {
				return fmt.Errorf("dot: %w", err)
			}
			defer r.Close()

			if *out == "" {
				var buf bytes.Buffer
				if err := r.Dot(&buf); err != nil {
					return fmt.Errorf("dot: %w", err)
				}
				o.Printf("%s", buf.String())
				return nil
			}

			f, err := os.Create(*out)
			if err != nil {
				return fmt.Errorf("dot: %w", err)
			}
			defer f.Close()

			if err := r.Dot(f); err != nil {
				return fmt.Errorf("dot: %w", err)
			}
			o.Println("wrote", *out)
			return nil
		},
	}
}
