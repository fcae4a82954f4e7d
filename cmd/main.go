package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/meghashyamc/docsearch/api"
	"github.com/meghashyamc/docsearch/config"
	"github.com/spf13/cobra"
)

const (
	flagEnv     = "env"
	flagPort    = "port"
	flagPreload = "preload"
	flagExclude = "exclude"
)

func main() {
	godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "docsearch",
		Short:         "Store text documents and search them over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(flagEnv, "", "Config environment (defaults to $ENV, then local)")

	root.AddCommand(newServeCmd(), newLoadCmd())
	return root
}

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	c.Flags().String(flagPort, "", "Port to listen on, overriding the configured one")
	c.Flags().String(flagPreload, "", "Directory whose text files are loaded before serving")
	c.Flags().StringSlice(flagExclude, nil, "Folders skipped by --preload, relative to the preloaded directory (repeatable or comma separated)")
	return c
}

func newLoadCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "load <dir>",
		Short: "Load the text files under a directory as documents",
		Args:  cobra.ExactArgs(1),
		RunE:  runLoad,
	}
	c.Flags().StringSlice(flagExclude, nil, "Folders to skip, relative to <dir> (repeatable or comma separated)")
	return c
}

func loadConfig(c *cobra.Command) (*config.Config, error) {
	env, _ := c.Flags().GetString(flagEnv)
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runServe(c *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if port, _ := c.Flags().GetString(flagPort); port != "" {
		cfg.SetPort(port)
	}
	preload := api.LoadOptions{}
	preload.Dir, _ = c.Flags().GetString(flagPreload)
	preload.Exclude, _ = c.Flags().GetStringSlice(flagExclude)

	return api.Run(c.Context(), cfg, preload)
}

func runLoad(c *cobra.Command, args []string) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	opts := api.LoadOptions{Dir: args[0]}
	opts.Exclude, _ = c.Flags().GetStringSlice(flagExclude)

	summary, err := api.Load(c.Context(), cfg, opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.OutOrStdout(), "added %d documents, skipped %d\n", summary.Added, summary.Skipped)
	return nil
}
