package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// String is ledgercheck's own version, independent of the protocol
// version any particular --params file declares.
const String = "ledgercheck 0.1.0"

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the ledgercheck version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), String)
			return nil
		},
	}
}
