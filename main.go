package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/zefrenchwan/topicmaps.git/config"
	"github.com/zefrenchwan/topicmaps.git/serving"
	"github.com/zefrenchwan/topicmaps.git/storage"
	"github.com/zefrenchwan/topicmaps.git/topicmaps"
	"go.uber.org/zap"
)

const Version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "topicmaps",
		Short: "Topic maps server",
		Long: `Topic maps server keeps topic maps in memory, merges topics sharing identities,
and stores topic maps contents in postgresql.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Launch the http server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init-schema",
		Short: "Create database schema and tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDao(cmd.Context(), configPath, func(ctx context.Context, dao *storage.Dao) error {
				return dao.InitSchema(ctx)
			})
		},
	})

	var login, password string
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Create or update a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(login) == 0 || len(password) == 0 {
				return errors.New("expecting login and password")
			}

			return withDao(cmd.Context(), configPath, func(ctx context.Context, dao *storage.Dao) error {
				return dao.UpsertUser(ctx, "cli", login, password)
			})
		},
	}

	userCmd.Flags().StringVar(&login, "login", "", "User login")
	userCmd.Flags().StringVar(&password, "password", "", "User password")
	cmd.AddCommand(userCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("topicmaps version %s\n", Version)
		},
	})

	return cmd
}

// withDao loads configuration, connects to the database and runs operation
func withDao(ctx context.Context, configPath string, operation func(context.Context, *storage.Dao) error) error {
	cfg, errConfig := config.Load(configPath)
	if errConfig != nil {
		return errConfig
	} else if cfg.Database.URL == "" {
		return errors.New("no database set")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	dao, errDao := storage.NewDao(ctx, cfg.Database.URL)
	if errDao != nil {
		return fmt.Errorf("failed to build dao: %w", errDao)
	}

	defer dao.Close()
	return operation(ctx, &dao)
}

// serve runs the http server until interruption
func serve(ctx context.Context, configPath string) error {
	cfg, errConfig := config.Load(configPath)
	if errConfig != nil {
		return errConfig
	} else if cfg.Database.URL == "" {
		return errors.New("no database set")
	}

	logger, errLogger := cfg.NewLogger()
	if errLogger != nil {
		return errLogger
	}

	defer logger.Sync()

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dao, errDao := storage.NewDao(ctx, cfg.Database.URL)
	if errDao != nil {
		return fmt.Errorf("failed to build dao: %w", errDao)
	}

	defer dao.Close()

	if cfg.Database.InitSchema {
		if err := dao.InitSchema(ctx); err != nil {
			return err
		}
	}

	system := topicmaps.NewTopicMapSystem(cfg.TopicMapFeatures(), logger)
	defer system.Close()

	mux := serving.InitService(&dao, system, ctx, logger.Sugar())
	server := &http.Server{Addr: cfg.Server.Port, Handler: mux}

	errServe := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("port", cfg.Server.Port))
		errServe <- server.ListenAndServe()
	}()

	select {
	case err := <-errServe:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("server stopping")
		return server.Shutdown(shutdownCtx)
	}
}
