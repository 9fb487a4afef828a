package main

import (
	"context"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/theupdateframework/go-tuf-client/client"
)

var cmdLoadTemplate = usageTemplate{
	Use:   "load",
	Short: "Loads a TUF repository and lists its trusted targets.",
	Long:  "Runs the full root/timestamp/snapshot/targets load workflow against a repository and prints the targets it ends up trusting, the way `notary list` prints a trusted collection's targets.",
}

type loadCommander struct{}

func (l *loadCommander) AddToCommand(root *cobra.Command) {
	cmd := cmdLoadTemplate.ToCommand(l.run)
	addRepoFlags(cmd)
	root.AddCommand(cmd)
}

func (l *loadCommander) run(cmd *cobra.Command, args []string) error {
	v, err := viperForRun(cmd)
	if err != nil {
		return err
	}
	settings, reg, err := settingsFromViper(v)
	if err != nil {
		return err
	}

	repo, err := client.Load(context.Background(), settings, reg)
	if err != nil {
		return errors.Wrap(err, "tufclient: load")
	}

	targets := repo.Targets()
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLENGTH\tSHA256")
	for _, name := range names {
		t := targets[name]
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, t.Length, t.SHA256.String())
	}
	return w.Flush()
}
