// Package commands implements the catalogctl subcommands.
package commands

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"catalog-admin/internal/bootstrap"
	"catalog-admin/internal/infra/setup"
)

type rootOptions struct {
	driver  string
	dsn     string
	verbose bool
}

// NewRootCmd builds the catalogctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "catalogctl",
		Short: "Administer the catalog admin service",
		Long: `catalogctl runs maintenance tasks against the catalog database and
issues operator credentials.

Database settings come from the same environment as the server
(DB_DRIVER, DATABASE_URL, optionally via .env) unless --dsn is given.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.WarnLevel)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.driver, "driver", setup.DriverPostgres, "Database driver used with --dsn (postgres, mysql, sqlite)")
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "Database connection string; overrides DATABASE_URL")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newPostsCmd(opts))
	root.AddCommand(newHashPasswordCmd())
	root.AddCommand(newTokenCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB connects with --dsn when given, else with the server configuration.
func (o *rootOptions) openDB() (*gorm.DB, error) {
	dbOpts := setup.DBOptions{Driver: o.driver, DSN: o.dsn}
	if o.dsn == "" {
		cfg, err := bootstrap.LoadConfig()
		if err != nil {
			return nil, err
		}
		dbOpts = setup.DBOptions{
			Driver:       cfg.DBDriver,
			DSN:          cfg.DatabaseURL,
			MaxOpenConns: 2,
		}
	}
	return setup.InitDB(dbOpts)
}
