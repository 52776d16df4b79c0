package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/TylerFlar/tylerflar.github.io/internal/builder"
	"github.com/TylerFlar/tylerflar.github.io/internal/config"
	"github.com/TylerFlar/tylerflar.github.io/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build, serve and rebuild on change with live reload",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := config.LoadSiteConfig(appCfg.configPath)
		if err != nil {
			return err
		}

		configFile := appCfg.configPath
		if configFile == "" {
			configFile = config.DefaultFile
		}
		serveOpts := server.Options{
			Port:       servePort,
			OutputDir:  site.Dir.Output,
			WatchPaths: []string{site.Dir.Input, configFile},
		}
		buildFunc := func(opts builder.BuildOptions) error {
			return build(context.Background(), appCfg.configPath, opts)
		}
		return server.Run(serveOpts, buildFunc, appCfg.buildOptions())
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port for the local development server.")
}
