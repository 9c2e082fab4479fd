// Part of the pocketdoc CLI - root command, shared flags and store wiring.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pocketdoc/pocketdoc/storage"
)

var (
	storePath  string
	backend    string
	configPath string
	verbose    bool
)

// cliConfig is the optional yaml config file; flags override it.
type cliConfig struct {
	Store   string `yaml:"store"`
	Backend string `yaml:"backend"`
}

var rootCmd = &cobra.Command{
	Use:   "pocketdoc",
	Short: "Pocketdoc CLI",
	Long:  "Pocketdoc is a local document store with path-addressed fields and predicate queries.",
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := applyConfigFile(); err != nil {
			return err
		}
		return initLogging(verbose)
	}

	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "path to store file")
	rootCmd.PersistentFlags().StringVarP(&backend, "backend", "b", "json", "store backend: json or bolt")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to yaml config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(maskCmd)
	rootCmd.AddCommand(arrayCmd)
}

// applyConfigFile fills unset flags from the yaml config, when given.
func applyConfigFile() error {
	if configPath == "" {
		return nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	var cfg cliConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if storePath == "" {
		storePath = cfg.Store
	}
	if cfg.Backend != "" && !rootCmd.PersistentFlags().Changed("backend") {
		backend = cfg.Backend
	}
	return nil
}

// openStore opens the configured store backend.
func openStore() (storage.Store, error) {
	if storePath == "" {
		return nil, fmt.Errorf("store path is required (--store or config file)")
	}
	absPath, err := filepath.Abs(storePath)
	if err != nil {
		return nil, fmt.Errorf("invalid store path: %w", err)
	}

	slog.Debug("opening store", "path", absPath, "backend", backend)
	switch backend {
	case "json":
		return storage.OpenJSON(absPath), nil
	case "bolt":
		return storage.OpenBolt(absPath)
	default:
		return nil, fmt.Errorf("unknown backend %q (want json or bolt)", backend)
	}
}
