package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/youruser/cardego/internal/cards"
)

var importCmd = &cobra.Command{
	Use:   "import [csv]",
	Short: "Load cards from a CSV file into the database",
	Long: `Import upserts every card in the CSV file. The header must contain id and
name; cardclass, action, speed, initiative, desc, image_url and attributes
are optional. Attributes are written as "key=value / key=value".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cs, err := cards.LoadCardsFromCSV(args[0])
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.PutCards(cmd.Context(), cs); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "imported %d cards into %s\n", len(cs), cfg.Database.Path)
		return nil
	},
}
