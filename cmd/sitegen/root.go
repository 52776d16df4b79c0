package main

import (
	"github.com/spf13/cobra"

	"github.com/TylerFlar/tylerflar.github.io/internal/builder"
	"github.com/TylerFlar/tylerflar.github.io/internal/config"
)

type appConfig struct {
	configPath string
	debug      bool
	unsafe     bool
}

var appCfg appConfig

var rootCmd = &cobra.Command{
	Use:   "sitegen",
	Short: "Static generator for the personal site",
	Long: `sitegen turns Markdown pages with front matter under src/ into the
static site published from docs/. Layouts live in src/_includes and
global data in src/_data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&appCfg.configPath, "config", "", "site config file (default is ./"+config.DefaultFile+")")
	flags.BoolVar(&appCfg.debug, "debug", false, "Enable debug mode for verbose output.")
	flags.BoolVar(&appCfg.unsafe, "unsafe", false, "Disable HTML sanitization. Allows all raw HTML.")

	rootCmd.AddCommand(buildCmd, serveCmd, newCmd)
}

func (a appConfig) buildOptions() builder.BuildOptions {
	return builder.BuildOptions{
		Unsafe: a.unsafe,
		Debug:  a.debug,
	}
}
