package main

import (
	"context"
	"fmt"
	"time"

	"jobmatch/internal/app"
	"jobmatch/internal/config"
	"jobmatch/internal/database/migration"
	dbpostgres "jobmatch/internal/database/postgres"
	"jobmatch/internal/database/seeder"
	"jobmatch/internal/pkg/jwt"
	"jobmatch/internal/repository"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEnsureDefaultCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-default",
		Short: "Create the default matching config when none exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			c, err := app.NewContainer(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			mc, created, err := c.Profiles.EnsureDefault(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("matching config ready", zap.Bool("created", created), zap.Time("updated_at", mc.UpdatedAt))
			return nil
		},
	}
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations to Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			db, err := dbpostgres.Connect(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := (migration.Runner{}).Run(ctx, db.SQLDB()); err != nil {
				return err
			}
			log.Info("migrations applied")
			return nil
		},
	}
}

func newSweepCmd(opts *rootOptions) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired recommendations once, or repeatedly with --interval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			c, err := app.NewContainer(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if interval > 0 {
				return c.Sweeper.Run(cmd.Context(), interval)
			}
			n, err := c.Sweeper.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired recommendations\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "keep sweeping at this interval until interrupted")
	return cmd
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load candidates and jobs from a fixture file into Postgres",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.Store.FixtureFile
			}
			if file == "" {
				return fmt.Errorf("no fixture file: pass --file or set store.fixture_file")
			}
			f, err := repository.LoadFixture(file)
			if err != nil {
				return err
			}

			db, err := dbpostgres.Connect(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := (seeder.Runner{Seeders: seeder.Defaults(f), Log: log}).Run(cmd.Context(), db); err != nil {
				return err
			}
			log.Info("fixture seeded", zap.String("file", file), zap.Int("candidates", len(f.Candidates)), zap.Int("jobs", len(f.Jobs)))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "fixture json (defaults to store.fixture_file)")
	return cmd
}

func newIssueTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Sign an access token for local testing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			tok, err := issueToken(cfg, userID, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (uuid); random when empty")
	cmd.Flags().StringVar(&role, "role", jwt.RoleUser, "role claim: user or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to jwt.access_expires_in)")
	return cmd
}

func issueToken(cfg config.Config, userID, role string, ttl time.Duration) (string, error) {
	if role != jwt.RoleUser && role != jwt.RoleAdmin {
		return "", fmt.Errorf("unknown role %q", role)
	}
	id := uuid.New()
	if userID != "" {
		var err error
		if id, err = uuid.Parse(userID); err != nil {
			return "", fmt.Errorf("invalid --user: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = cfg.JWT.AccessExpiresIn
	}
	return jwt.NewHMACService(cfg.JWT.AccessSecret, ttl).GenerateAccessToken(id, role)
}
