package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/TylerFlar/tylerflar.github.io/internal/builder"
	"github.com/TylerFlar/tylerflar.github.io/internal/config"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site into the output directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		opts := appCfg.buildOptions()
		opts.CleanDestination = true
		fmt.Println("--- Generating site ---")
		return build(ctx, appCfg.configPath, opts)
	},
}

// build reloads the config on every call so serve picks up edits to it.
func build(ctx context.Context, configPath string, opts builder.BuildOptions) error {
	site, err := config.LoadSiteConfig(configPath)
	if err != nil {
		return err
	}
	count, err := builder.BuildSite(ctx, site, opts)
	if err != nil {
		return fmt.Errorf("site generation failed: %w", err)
	}
	fmt.Printf("✅ Success! Generated %d pages.\n", count)
	return nil
}
