package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// ChangedString returns the flag's value when it was set on the command
// line, or nil. Update commands use it to leave unset fields alone.
func ChangedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

// ChangedDecimal parses a string flag as a decimal when it was set.
func ChangedDecimal(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	raw := ChangedString(cmd, name)
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", name, *raw, err)
	}
	return &d, nil
}
