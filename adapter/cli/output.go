package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Output prints v as JSON when --json is set and calls text otherwise.
func Output(w io.Writer, v any, text func(w io.Writer)) error {
	if jsonOutput {
		return PrintJSON(w, v)
	}
	text(w)
	return nil
}

// Table starts an aligned table with the given header row. Call Flush when done.
func Table(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, h := range header {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	return tw
}
