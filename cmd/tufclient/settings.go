package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/theupdateframework/go-tuf-client/client"
	"github.com/theupdateframework/go-tuf-client/metrics"
	"github.com/theupdateframework/go-tuf-client/storage"
)

const filePrefix = "file://"

// settingsFromViper builds a client.Settings and a fresh metrics
// registry out of the flags/env/config-file values bound to v, the way
// notary's config.go functions turn a *viper.Viper into a typed
// *signer.Config or *server.Config for the rest of the program to use.
func settingsFromViper(v *viper.Viper) (client.Settings, *metrics.Registry, error) {
	rootFile := v.GetString("root")
	if rootFile == "" {
		return client.Settings{}, nil, fmt.Errorf("tufclient: --root is required")
	}
	rootBytes, err := os.ReadFile(rootFile)
	if err != nil {
		return client.Settings{}, nil, errors.Wrapf(err, "tufclient: read root file %q", rootFile)
	}

	metadataURL := v.GetString("metadata-url")
	targetsURL := v.GetString("targets-url")
	if metadataURL == "" || targetsURL == "" {
		return client.Settings{}, nil, fmt.Errorf("tufclient: --metadata-url and --targets-url are required")
	}

	datastoreDir := v.GetString("datastore")
	if datastoreDir == "" {
		return client.Settings{}, nil, fmt.Errorf("tufclient: --datastore is required")
	}

	limits, err := limitsFromViper(v)
	if err != nil {
		return client.Settings{}, nil, err
	}

	reg := metrics.NewRegistry(prometheus.NewRegistry())

	settings := client.Settings{
		Root:            rootBytes,
		DatastoreDir:    datastoreDir,
		MetadataBaseURL: stripFileScheme(metadataURL),
		TargetBaseURL:   stripFileScheme(targetsURL),
		Limits:          limits,
		Transport:       transportFor(metadataURL),
	}
	return settings, reg, nil
}

// limitsFromViper starts from client.DefaultLimits() and, if the config
// file sets a "limits" section, decodes it over the defaults with
// mapstructure directly — the same decoder viper itself uses
// internally, but invoked explicitly here since client.Limits's
// mapstructure tags (client/config.go) otherwise name a shape nothing
// ever decodes into. Flags/env never set per-field limits; only a
// config file's "limits" section can override a default.
func limitsFromViper(v *viper.Viper) (client.Limits, error) {
	limits := client.DefaultLimits()
	raw := v.Get("limits")
	if raw == nil {
		return limits, nil
	}
	if err := mapstructure.Decode(raw, &limits); err != nil {
		return client.Limits{}, errors.Wrap(err, "tufclient: decode limits")
	}
	return limits, nil
}

// transportFor picks a Transport from the metadata URL's scheme: a
// file://-rooted repository is read straight off disk, anything else
// goes over HTTP(S). Both metadata and target base URLs must share the
// same transport kind — a deliberate simplification for this thin
// operator CLI (spec.md's ambient-tooling Non-goal), not a limitation
// of the client library, which takes an arbitrary storage.Transport.
func transportFor(metadataURL string) storage.Transport {
	if strings.HasPrefix(metadataURL, filePrefix) {
		return storage.NewFilesystemTransport("")
	}
	return storage.NewHTTPTransport(nil)
}

func stripFileScheme(u string) string {
	return strings.TrimPrefix(u, filePrefix)
}
