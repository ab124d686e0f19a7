package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/cafirm/website/backend/internal/config"
	"github.com/cafirm/website/backend/internal/database"
	"github.com/cafirm/website/backend/internal/logger"
	"github.com/cafirm/website/backend/internal/models"
	"github.com/cafirm/website/backend/internal/server"
	"github.com/cafirm/website/backend/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log().WithError(err).Fatal("load config")
	}

	out, err := logger.Rotating(cfg.LogDir)
	if err != nil {
		logger.Log().WithError(err).Warn("file logging disabled")
		out = os.Stdout
	}
	logger.Init(cfg.Debug, out)
	log := logger.Log()

	db, err := database.Connect(cfg.Database, cfg.Debug)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}

	// Handle CLI commands
	if len(os.Args) > 1 && os.Args[1] == "reset-password" {
		if len(os.Args) != 4 {
			log.Fatalf("Usage: %s reset-password <username> <new-password>", os.Args[0])
		}
		username, newPassword := os.Args[2], os.Args[3]

		var user models.AdminUser
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			log.WithError(err).Fatal("admin user not found")
		}
		if err := user.SetPassword(newPassword); err != nil {
			log.WithError(err).Fatal("hash password")
		}
		if err := db.Save(&user).Error; err != nil {
			log.WithError(err).Fatal("save admin user")
		}
		log.WithField("username", username).Info("password updated")
		return
	}

	log.WithFields(logrus.Fields{"version": version.Full(), "git_commit": version.GitCommit}).Infof("starting %s backend", version.Name)

	srv, err := server.New(db, cfg)
	if err != nil {
		log.WithError(err).Fatal("build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.WithError(err).Fatal("server error")
	}
	log.Info("server stopped")
}
