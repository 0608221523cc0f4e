package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"heavenlist/config"
	"heavenlist/internal/database"
	"heavenlist/internal/router"
	"heavenlist/pkg/cloudinary"
)

func main() {
	cfg := config.Load()
	warnDefaults(cfg)

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("[STARTUP] database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("[STARTUP] migrate: %v", err)
	}
	database.SeedAdmin(db)

	cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		log.Fatalf("[STARTUP] cloudinary: %v", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(cfg, db, cloud),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[STARTUP] heavenlist listening on :%s (%s)", cfg.Server.Port, cfg.Server.Env)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("[STARTUP] listen: %v", err)
		}
	case sig := <-quit:
		log.Printf("[SHUTDOWN] received %s, draining connections", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("[SHUTDOWN] %v", err)
		}
		log.Println("[SHUTDOWN] done")
	}
}

// warnDefaults flags placeholder secrets at boot. The server still starts so
// local development works, but a production deploy should never log these.
func warnDefaults(cfg *config.Config) {
	for name, v := range map[string]string{
		"JWT_ACCESS_SECRET":  cfg.JWT.AccessSecret,
		"JWT_REFRESH_SECRET": cfg.JWT.RefreshSecret,
		"JWT_RESET_SECRET":   cfg.JWT.ResetSecret,
		"OTP_SEED":           cfg.OTP.Seed,
	} {
		if strings.HasPrefix(v, "change-me") {
			log.Printf("[CONFIG] %s is a default value, set it before going live", name)
		}
	}
	if cfg.Korapay.SecretKey == "" {
		log.Println("[CONFIG] KORAPAY_SECRET_KEY is empty, payment initiation will fail")
	}
	if cfg.Mail.APIKey == "" {
		log.Println("[CONFIG] BREVO_API_KEY is empty, OTP emails will not send")
	}
}
