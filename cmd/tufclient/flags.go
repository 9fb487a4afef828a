package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var repoFlagNames = []string{"root", "datastore", "metadata-url", "targets-url"}

// addRepoFlags registers the flags every subcommand needs to build a
// client.Settings. Flags must be registered at command-construction
// time, before cobra parses the command line, so this runs once from
// each commander's AddToCommand rather than from within RunE.
func addRepoFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("root", "", "path to the initial trusted root.json")
	flags.String("datastore", "", "directory used to persist trusted metadata between runs")
	flags.String("metadata-url", "", "base URL (or file:// path) serving repository metadata")
	flags.String("targets-url", "", "base URL (or file:// path) serving target files")
}

// viperForRun builds a *viper.Viper bound to cmd's already-parsed flags
// and, if --config was given, its config file — called from inside
// RunE, after cobra has parsed the command line, so BindPFlag sees each
// flag's final value.
func viperForRun(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	setupViper(v)

	configFile, _ := cmd.Flags().GetString("config")
	if err := parseConfigFile(v, configFile); err != nil {
		return nil, err
	}

	for _, name := range repoFlagNames {
		if err := v.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return nil, err
		}
	}
	return v, nil
}
