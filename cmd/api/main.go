package main

import (
	"context"
	"os"

	"github.com/schoolbook/marksdesk/internal/pkg/logger"
	"github.com/schoolbook/marksdesk/internal/server"
)

// @title marksdesk API
// @version 1.0.0
// @description Admin API for student records and term marks

// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer access token from /auth/login

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// The package default logger is still in place when setup fails
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal or a listener error
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
