package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var renderHTML bool

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render cards or deck cardsheets without the HTTP server",
}

var renderCardCmd = &cobra.Command{
	Use:   "card [id]",
	Short: "Render one card to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%q is not a valid card id", args[0])
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		pipeline, err := cfg.NewPipeline()
		if err != nil {
			return err
		}

		card, err := db.GetCard(cmd.Context(), id)
		if err != nil {
			return err
		}
		if renderHTML {
			html, err := pipeline.CardHTML(card)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), html)
			return nil
		}
		path, err := pipeline.RenderCard(cmd.Context(), card)
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "rendered card %d: %s\n", id, path)
		return nil
	},
}

var renderDeckCmd = &cobra.Command{
	Use:   "deck [name]",
	Short: "Render a deck cardsheet to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		pipeline, err := cfg.NewPipeline()
		if err != nil {
			return err
		}

		cs, err := db.GetCardsByDeckName(cmd.Context(), name)
		if err != nil {
			return err
		}
		path, err := pipeline.RenderDeckSheet(cmd.Context(), name, cs)
		if err != nil {
			return err
		}
		w, h := pipeline.Layout().SheetDimensions(len(cs))
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "rendered deck %q (%d cards, %dx%d): %s\n",
			name, len(cs), w, h, path)
		return nil
	},
}

func init() {
	renderCardCmd.Flags().BoolVar(&renderHTML, "html", false, "print the substituted HTML instead of rendering")
	renderCmd.AddCommand(renderCardCmd, renderDeckCmd)
}
