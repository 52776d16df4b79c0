package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/TylerFlar/tylerflar.github.io/internal/scaffold"
)

var newCmd = &cobra.Command{
	Use:   "new site <name> | new <section> <title>",
	Short: "Scaffold a new site or a new page",
	Example: `  sitegen new site mysite
  sitegen new blog "Notes on Transformers"
  sitegen new classes CS 101`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "site" {
			return scaffold.CreateNewSite(args[1])
		}
		_, err := scaffold.CreateNewContent(args[0], strings.Join(args[1:], " "), appCfg.configPath)
		return err
	},
}
