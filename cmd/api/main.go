package main

import (
	"context"
	"os"

	"github.com/yigit/courseportal/internal/pkg/logger"
	"github.com/yigit/courseportal/internal/server"
)

// @title Course Portal API
// @version 1.0
// @description Student course registration: admins manage the catalog, students register and pick courses.

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name portal_session

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
