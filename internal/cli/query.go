package cli

import (
	"github.com/orchidfst/fst/pkg/fst"

	flag "github.com/spf13/pflag"
)

// queryFlags are the --min/--max bound flags shared by range, match and
// prefix.
type queryFlags struct {
	min     *string
	max     *string
	minExcl *bool
	maxExcl *bool
}

func addQueryFlags(flags *flag.FlagSet) queryFlags {
	return queryFlags{
		min:     flags.String("min", "", "Lower bound key (default: unbounded)"),
		max:     flags.String("max", "", "Upper bound key (default: unbounded)"),
		minExcl: flags.Bool("min-exclusive", false, "Exclude the --min key itself"),
		maxExcl: flags.Bool("max-exclusive", false, "Exclude the --max key itself"),
	}
}

func (q queryFlags) bounds() (min, max fst.Bound) {
	min = fst.Unbounded()
	if *q.min != "" {
		if *q.minExcl {
			min = fst.Excluded([]byte(*q.min))
		} else {
			min = fst.Included([]byte(*q.min))
		}
	}
	max = fst.Unbounded()
	if *q.max != "" {
		if *q.maxExcl {
			max = fst.Excluded([]byte(*q.max))
		} else {
			max = fst.Included([]byte(*q.max))
		}
	}
	return min, max
}

// drainIterator prints every (key, value) pair it yields, one per line.
// Values are omitted for set-mode FSTs. Returns the number printed.
func drainIterator(o *IO, it *fst.Iterator, hasOutput bool) (int, error) {
	n := 0
	for {
		key, value, ok, err := it.Next()
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}
		if hasOutput {
			o.Printf("%s\t%d\n", key, value)
		} else {
			o.Printf("%s\n", key)
		}
		n++
	}
}
