package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/cache"
	"github.com/yatube/yatube/internal/db"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/web"
	"github.com/yatube/yatube/pkg/config"
	"github.com/yatube/yatube/pkg/logging"
)

const usage = `Usage: yatube-admin <command> [flags]

Commands:
  migrate        create or update the database schema
  create-group   add a group (--title, --slug, --description)
  delete-group   remove a group, keeping its posts (--slug)
  create-user    add a user account (--username, --password)
  clear-cache    drop every cached page, or only the anonymous copies of
                 the given pages (--path, repeatable)
`

// command is one administrative action
type command struct {
	flags *pflag.FlagSet
	run   func(ctx context.Context, env *environment) error
}

// environment holds the connections opened for a command
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *db.DB
	repos  *db.Repositories
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	commands := newCommands()
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err := cmd.flags.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	env := &environment{cfg: cfg, logger: logging.WithComponent("admin")}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := cmd.run(ctx, env); err != nil {
		env.logger.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		env.close()
		os.Exit(1)
	}
	env.close()
}

// openDB connects to the database on first use
func (e *environment) openDB() error {
	if e.db != nil {
		return nil
	}
	database, err := db.New(&e.cfg.Database, e.cfg.Logging.Level, e.cfg.Telemetry.ServiceName+"-admin")
	if err != nil {
		return err
	}
	e.db = database
	e.repos = db.NewRepositories(database.DB)
	return nil
}

func (e *environment) close() {
	if e.db != nil {
		e.db.Close()
	}
}

func newCommands() map[string]*command {
	commands := map[string]*command{}

	migrate := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	commands["migrate"] = &command{
		flags: migrate,
		run: func(ctx context.Context, env *environment) error {
			if err := env.openDB(); err != nil {
				return err
			}
			if err := env.db.Migrate(ctx); err != nil {
				return err
			}
			env.logger.Info("Schema migrated")
			return nil
		},
	}

	createGroup := pflag.NewFlagSet("create-group", pflag.ContinueOnError)
	title := createGroup.String("title", "", "group title")
	slug := createGroup.String("slug", "", "unique URL token of the group")
	description := createGroup.String("description", "", "group description")
	commands["create-group"] = &command{
		flags: createGroup,
		run: func(ctx context.Context, env *environment) error {
			if *title == "" || *slug == "" {
				return errors.New("--title and --slug are required")
			}
			if err := env.openDB(); err != nil {
				return err
			}
			group := &models.Group{Title: *title, Slug: *slug, Description: *description}
			if err := env.repos.Groups.Create(ctx, group); err != nil {
				if errors.Is(err, db.ErrDuplicate) {
					return fmt.Errorf("group with slug %q already exists", *slug)
				}
				return err
			}
			env.logger.Info("Group created", zap.Int64("id", group.ID), zap.String("slug", group.Slug))
			return nil
		},
	}

	deleteGroup := pflag.NewFlagSet("delete-group", pflag.ContinueOnError)
	deleteSlug := deleteGroup.String("slug", "", "slug of the group to remove")
	commands["delete-group"] = &command{
		flags: deleteGroup,
		run: func(ctx context.Context, env *environment) error {
			if *deleteSlug == "" {
				return errors.New("--slug is required")
			}
			if err := env.openDB(); err != nil {
				return err
			}
			removed, err := env.repos.Groups.DeleteBySlug(ctx, *deleteSlug)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("group %q not found", *deleteSlug)
			}
			env.logger.Info("Group deleted", zap.String("slug", *deleteSlug))
			return nil
		},
	}

	createUser := pflag.NewFlagSet("create-user", pflag.ContinueOnError)
	username := createUser.String("username", "", "login name")
	password := createUser.String("password", "", "initial password")
	commands["create-user"] = &command{
		flags: createUser,
		run: func(ctx context.Context, env *environment) error {
			if err := auth.ValidateCredentials(*username, *password); err != nil {
				return err
			}
			hash, err := auth.HashPassword(*password)
			if err != nil {
				return err
			}
			if err := env.openDB(); err != nil {
				return err
			}
			user := &models.User{Username: *username, PasswordHash: hash}
			if err := env.repos.Users.Create(ctx, user); err != nil {
				if errors.Is(err, db.ErrDuplicate) {
					return auth.ErrUsernameTaken
				}
				return err
			}
			env.logger.Info("User created", zap.Int64("id", user.ID), zap.String("username", user.Username))
			return nil
		},
	}

	clearCache := pflag.NewFlagSet("clear-cache", pflag.ContinueOnError)
	clearPaths := clearCache.StringSlice("path", nil, "request URI of a page to drop, e.g. /?page=2")
	commands["clear-cache"] = &command{
		flags: clearCache,
		run: func(ctx context.Context, env *environment) error {
			redisCache, err := cache.New(&env.cfg.Redis)
			if err != nil {
				return err
			}
			if redisCache == nil {
				env.logger.Info("Redis not configured; in-process caches clear on restart")
				return nil
			}
			defer redisCache.Close()

			if len(*clearPaths) > 0 {
				for _, uri := range *clearPaths {
					if err := redisCache.Delete(ctx, web.PageKey(http.MethodGet, uri, "")); err != nil {
						return err
					}
					env.logger.Info("Cached page dropped", zap.String("path", uri))
				}
				return nil
			}
			if err := redisCache.Clear(ctx); err != nil {
				return err
			}
			env.logger.Info("Page cache cleared")
			return nil
		},
	}

	return commands
}
