package cli

import (
	"context"
	"fmt"

	"github.com/orchidfst/fst/internal/config"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd prints the resolved configuration as JSON.
func PrintConfigCmd(cfg config.Config) *Command {
	flags := flag.NewFlagSet("print-config", flag.ContinueOnError)

	return &Command{
		Flags: flags,
		Usage: "print-config",
		Short: "Print the resolved configuration",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			formatted, err := config.Format(cfg)
			if err != nil {
				return fmt.Errorf("print-config: %w", err)
			}
			o.Println(formatted)
			return nil
		},
	}
}
