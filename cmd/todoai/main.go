package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/todoai/todoai/internal/profile"
	"github.com/todoai/todoai/internal/version"
	"github.com/todoai/todoai/server"
	"github.com/todoai/todoai/store"
	"github.com/todoai/todoai/store/db"
)

var (
	rootCmd = &cobra.Command{
		Use:   "todoai",
		Short: `A multi-user task manager with a conversational assistant.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			instanceProfile, err := loadProfile()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), instanceProfile)
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			instanceProfile, err := loadProfile()
			if err != nil {
				return err
			}
			storeInstance, err := openStore(instanceProfile)
			if err != nil {
				return err
			}
			defer storeInstance.Close()

			if err := storeInstance.Migrate(cmd.Context()); err != nil {
				return err
			}
			slog.Info("database migrated", "driver", instanceProfile.Driver)
			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetCurrentVersion(viper.GetString("mode")))
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8000)
	viper.SetDefault("jwt-algorithm", "HS256")
	viper.SetDefault("jwt-expiration-minutes", 60)
	viper.SetDefault("frontend-url", "http://localhost:3000")

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8000, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver: sqlite, mysql or postgres")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("frontend-url", "http://localhost:3000", "origin allowed by CORS")

	for _, name := range []string{"mode", "addr", "port", "data", "driver", "dsn", "frontend-url"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("todoai")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(migrateCmd, versionCmd)
}

func loadProfile() (*profile.Profile, error) {
	instanceProfile := &profile.Profile{
		Mode:                 viper.GetString("mode"),
		Addr:                 viper.GetString("addr"),
		Port:                 viper.GetInt("port"),
		Data:                 viper.GetString("data"),
		Driver:               viper.GetString("driver"),
		DSN:                  viper.GetString("dsn"),
		JWTSecret:            viper.GetString("jwt-secret"),
		JWTAlgorithm:         viper.GetString("jwt-algorithm"),
		JWTExpirationMinutes: viper.GetInt("jwt-expiration-minutes"),
		FrontendURL:          viper.GetString("frontend-url"),
	}
	setupLogger(instanceProfile)
	if err := instanceProfile.Validate(); err != nil {
		return nil, err
	}
	instanceProfile.Version = version.GetCurrentVersion(instanceProfile.Mode)
	return instanceProfile, nil
}

func setupLogger(instanceProfile *profile.Profile) {
	var handler slog.Handler
	if instanceProfile.Mode == "prod" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}

func openStore(instanceProfile *profile.Profile) (*store.Store, error) {
	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		slog.Error("failed to create db driver", "error", err.Error())
		return nil, err
	}
	return store.New(dbDriver, instanceProfile), nil
}

func serve(ctx context.Context, instanceProfile *profile.Profile) error {
	storeInstance, err := openStore(instanceProfile)
	if err != nil {
		return err
	}
	if err := storeInstance.Migrate(ctx); err != nil {
		slog.Error("failed to migrate", "error", err.Error())
		_ = storeInstance.Close()
		return err
	}

	s, err := server.NewServer(ctx, instanceProfile, storeInstance)
	if err != nil {
		slog.Error("failed to create server", "error", err.Error())
		_ = storeInstance.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		s.Shutdown(context.Background())
		return nil
	})
	return g.Wait()
}

func main() {
	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err.Error())
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
