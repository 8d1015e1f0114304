package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentalhouse-server/config"
	"rentalhouse-server/routes"
	"rentalhouse-server/services"
	"rentalhouse-server/storage"
	"rentalhouse-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	cfg := config.Load()
	cfg.SetupLogger()

	rootCmd := &cobra.Command{
		Use:   "rentalhouse-server",
		Short: "Rental property management server",
	}
	rootCmd.PersistentFlags().StringVar(&cfg.DatabaseURL, "db", cfg.DatabaseURL, "PostgreSQL connection string")

	rootCmd.AddCommand(
		serveCmd(cfg),
		migrateCmd(cfg),
		createAdminCmd(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func serveCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			storage.InitializeDB(cfg.DatabaseURL)
			utils.Tokens = &utils.RedisTokenStore{Client: storage.InitializeRedis(cfg.RedisURL)}
			storage.InitializeCloudinary(cfg.CloudinaryURL)
			if cfg.MailjetAPIKey != "" && cfg.MailjetSecretKey != "" {
				services.SetMailer(services.NewMailjetMailer(cfg.MailjetAPIKey, cfg.MailjetSecretKey, cfg.MailFrom))
			} else {
				log.Warn().Msg("MAILJET keys not set, notification e-mails disabled")
			}
			services.InitMetrics()

			app := routes.NewApp(cfg.AllowedOrigins)

			go func() {
				quit := make(chan os.Signal, 1)
				signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
				<-quit
				log.Info().Msg("Shutting down server...")

				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := app.Shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("graceful shutdown failed")
				}
			}()

			log.Info().Str("port", cfg.Port).Msg("Starting rental house server")
			err := app.Listen(":"+cfg.Port, iris.WithoutInterruptHandler, iris.WithoutServerError(iris.ErrServerClosed))
			log.Info().Msg("Server exiting")
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "HTTP port")
	return cmd
}

func migrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			storage.InitializeDB(cfg.DatabaseURL)
			log.Info().Msg("database schema is up to date")
			return nil
		},
	}
}

func createAdminCmd(cfg *config.Config) *cobra.Command {
	var email, password, firstName, lastName string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account or promote an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}
			db := storage.InitializeDB(cfg.DatabaseURL)
			user, err := services.CreateAdmin(db, email, password, firstName, lastName)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			log.Info().Uint("id", user.ID).Str("email", user.Email).Msg("admin account ready")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin e-mail")
	cmd.Flags().StringVar(&password, "password", "", "admin password (min 6 characters)")
	cmd.Flags().StringVar(&firstName, "first-name", "Admin", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	return cmd
}
