package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"studyoverflow/internal/config"
	"studyoverflow/internal/database"
	"studyoverflow/internal/middleware"
	"studyoverflow/internal/repository"
	"studyoverflow/internal/seed"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type configLoader func() (*config.Config, error)

func loadConfig() (*config.Config, error) {
	return config.LoadConfig()
}

// env carries the lazily opened resources shared by subcommands.
type env struct {
	load configLoader
	out  io.Writer
	cfg  *config.Config
	db   *gorm.DB
}

func (e *env) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := e.load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	e.cfg = cfg
	return cfg, nil
}

func (e *env) database() (*gorm.DB, error) {
	if e.db != nil {
		return e.db, nil
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	e.db = db
	return db, nil
}

func (e *env) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.out, format, args...)
}

func newRootCmd(load configLoader, out io.Writer) *cobra.Command {
	e := &env{load: load, out: out}

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Operator utilities for the StudyOverflow backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	root.AddCommand(
		newMigrateCmd(e),
		newSeedCmd(e),
		newRecountCmd(e),
		newTokenCmd(e),
	)
	return root
}

func newMigrateCmd(e *env) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, inspect or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply the schema policy for the configured environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			db, err := e.database()
			if err != nil {
				return err
			}
			if err := database.ApplySchema(cmd.Context(), db, cfg); err != nil {
				return fmt.Errorf("schema apply failed: %w", err)
			}
			e.printf("schema applied (driver=%s mode=%s)\n", cfg.DBDriver, cfg.DBSchemaMode)
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			db, err := e.database()
			if err != nil {
				return err
			}
			st, err := database.GetSchemaStatus(cmd.Context(), db, cfg)
			if err != nil {
				return fmt.Errorf("schema status failed: %w", err)
			}
			e.printf("mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d\n",
				st.Mode, st.Environment, st.WillRunSQL, st.WillRunAutoMigrate,
				len(st.AppliedVersions), len(st.PendingMigrations))
			for _, m := range st.PendingMigrations {
				e.printf("pending: %s\n", m.String())
			}
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down [version]",
		Short: "Roll back one migration, the latest when no version is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := e.database()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				version, err := database.RollbackLatest(cmd.Context(), db)
				if err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				e.printf("rolled back migration %d\n", version)
				return nil
			}
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			if err := database.RollbackMigration(cmd.Context(), db, version); err != nil {
				return fmt.Errorf("rollback failed: %w", err)
			}
			e.printf("rolled back migration %d\n", version)
			return nil
		},
	}

	migrate.AddCommand(up, status, down)
	return migrate
}

func newSeedCmd(e *env) *cobra.Command {
	opts := seed.DefaultOptions()
	var demo bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the university and course catalogue, optionally with demo content",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			if demo && cfg.IsProduction() {
				return fmt.Errorf("refusing to seed demo content in %q", cfg.Env)
			}
			db, err := e.database()
			if err != nil {
				return err
			}
			if err := seed.Catalog(db); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			e.printf("catalog seeded\n")

			if !demo {
				return nil
			}
			if err := seed.Demo(cmd.Context(), db, opts); err != nil {
				return fmt.Errorf("seed demo content: %w", err)
			}
			e.printf("demo content seeded (users=%d posts_per_course=%d)\n", opts.NumUsers, opts.PostsPerCourse)
			return nil
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "also generate users, posts, comments and votes")
	cmd.Flags().IntVar(&opts.NumUsers, "users", opts.NumUsers, "number of demo users")
	cmd.Flags().IntVar(&opts.PostsPerCourse, "posts-per-course", opts.PostsPerCourse, "demo posts per course")
	cmd.Flags().IntVar(&opts.CommentsPerPost, "comments-per-post", opts.CommentsPerPost, "maximum demo comments per post")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed for reproducible demo content")
	return cmd
}

func newRecountCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "recount",
		Short: "Recompute vote counts, comment counts and answered flags from source rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := e.database()
			if err != nil {
				return err
			}
			report, err := repository.NewMaintenanceRepository(db).Recount(cmd.Context())
			if err != nil {
				return fmt.Errorf("recount: %w", err)
			}
			e.printf("repaired post_votes=%d comment_votes=%d comment_counts=%d answered=%d\n",
				report.PostVotes, report.CommentVotes, report.CommentCounts, report.Answered)
			return nil
		},
	}
}

func newTokenCmd(e *env) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Sign a bearer token for local testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := e.config()
			if err != nil {
				return err
			}
			if cfg.IsProduction() {
				return fmt.Errorf("tokens are issued by the identity provider in %q", cfg.Env)
			}
			token, err := middleware.NewTokenVerifier(cfg.JWTSecret).Sign(args[0], ttl)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			e.printf("%s\n", token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
