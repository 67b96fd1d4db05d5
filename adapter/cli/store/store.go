// Package store holds the partner store CLI commands.
package store

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/supplifit/supplifit/internal/partners/application/queries"
)

// Cmd is the store command group
var Cmd = &cobra.Command{
	Use:   "store",
	Short: "Manage partner stores",
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(listCmd)
}

func printStore(w io.Writer, s *queries.StoreDTO) {
	fmt.Fprintf(w, "Store %s\n", s.ID)
	fmt.Fprintf(w, "  name:         %s\n", s.Name)
	fmt.Fprintf(w, "  registration: %s\n", s.RegistrationNumber)
	fmt.Fprintf(w, "  tier:         %s\n", s.Tier)
	fmt.Fprintf(w, "  status:       %s\n", s.Status)
	fmt.Fprintf(w, "  commission:   %s\n", s.CommissionRate)
	fmt.Fprintf(w, "  featured:     %t\n", s.Featured)
	fmt.Fprintf(w, "  priority:     %t\n", s.PrioritySupport)
}
