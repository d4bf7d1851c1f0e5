package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/apicat/internal/config"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	env        string
	configPath string
	logLevel   string
	baseURL    string
	workspace  string
	token      string
	pageSize   int

	out io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{out: out}

	cmd := &cobra.Command{
		Use:          "apicat",
		Short:        "Browse an API catalog from the terminal",
		SilenceUsage: true, // don't print usage on operational errors
		Long: `apicat lists, searches and inspects the APIs registered in a catalog
workspace, and resolves callable operation URLs from their specifications.`,
	}
	cmd.SetOut(out)

	f := cmd.PersistentFlags()
	f.StringVar(&opts.env, "env", config.GetEnv(), "Environment whose config/<env>.yaml is loaded")
	f.StringVar(&opts.configPath, "config", "", "Explicit config file (overrides --env)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&opts.baseURL, "base-url", "", "Catalog data API base URL")
	f.StringVar(&opts.workspace, "workspace", "", "Catalog workspace")
	f.StringVar(&opts.token, "token", "", "Bearer token for the data API")
	f.IntVar(&opts.pageSize, "page-size", 0, "Items per page ($top)")

	cmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newOpsCmd(opts),
		newServeCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}

// overrides turns set flags into config overrides.
func (o *rootOptions) overrides() config.Override {
	return func(c *config.Config) {
		if o.baseURL != "" {
			c.Catalog.BaseURL = o.baseURL
		}
		if o.workspace != "" {
			c.Catalog.Workspace = o.workspace
		}
		if o.token != "" {
			c.Catalog.Token = o.token
		}
		if o.pageSize > 0 {
			c.Catalog.PageSize = o.pageSize
		}
		if o.logLevel != "" {
			c.Logging.Level = o.logLevel
		}
	}
}

// loadConfig reads the explicit file, else the env file, else falls back
// to environment variables and flags alone.
func (o *rootOptions) loadConfig() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath, o.overrides())
	}
	cfg, err := config.Load(o.env, o.overrides())
	if config.IsNotExist(err) {
		return config.Default(o.overrides())
	}
	return cfg, err
}
