package main

import (
	"github.com/spf13/cobra"

	"github.com/youruser/cardego/internal/config"
	"github.com/youruser/cardego/internal/store"
)

var configPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardego",
	Short: "Card and deck server that renders cards and cardsheets",
	Long: `cardego serves a card/deck database over HTTP and renders single cards
and multi-card cardsheets to PNG through wkhtmltoimage.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFile, "path to the TOML config file")
	RootCmd.AddCommand(serveCmd, renderCmd, importCmd, configCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func openStore(cfg *config.Config) (*store.CardDatabase, error) {
	return store.Open(cfg.Database.Path)
}
