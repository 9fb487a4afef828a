package main

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "TUFCLIENT"

// setupViper wires v to read TUFCLIENT_* environment variables in
// addition to whatever flags are bound to it, the way
// utils.SetupViper does for every notary daemon's config (cmd/notary-
// signer/config.go, cmd/notary-server's equivalent).
func setupViper(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// parseConfigFile loads configFile into v if a path was given. A thin
// reduction of utils.ParseViper for a single optional config file rather
// than a whole server's worth of required configuration.
func parseConfigFile(v *viper.Viper, configFile string) error {
	if configFile == "" {
		return nil
	}
	ext := filepath.Ext(configFile)
	v.SetConfigType(strings.TrimPrefix(ext, "."))
	v.SetConfigName(strings.TrimSuffix(filepath.Base(configFile), ext))
	v.AddConfigPath(filepath.Dir(configFile))
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "tufclient: read config %q", configFile)
	}
	return nil
}
