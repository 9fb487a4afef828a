// Command tufclient is a thin operator CLI over the client package: it
// loads a TUF repository and can print or fetch the targets it trusts.
// Structured the way cmd/notary builds one cobra.Command per operation
// out of a small usageTemplate/commander pair (cmd/notary/diff.go,
// cmd/notary/tuf.go) — generalized here since notary's own ToCommand
// helper lives in a file this retrieval pack did not include.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// usageTemplate is the Use/Short/Long triple cmd/notary's command
// files declare once per subcommand before wiring flags and a RunE onto
// the resulting *cobra.Command.
type usageTemplate struct {
	Use   string
	Short string
	Long  string
}

func (u usageTemplate) ToCommand(run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:          u.Use,
		Short:        u.Short,
		Long:         u.Long,
		RunE:         run,
		SilenceUsage: true,
	}
}

func main() {
	root := &cobra.Command{
		Use:   "tufclient",
		Short: "Loads and reads targets from a TUF v1.0.0 repository.",
	}
	root.PersistentFlags().String("config", "", "path to a JSON/YAML/TOML config file")

	(&loadCommander{}).AddToCommand(root)
	(&getTargetCommander{}).AddToCommand(root)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
