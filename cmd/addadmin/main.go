// cmd/addadmin/main.go
// Creates an admin account, or resets the password of an existing one.
//
// Usage:
//
//	go run ./cmd/addadmin -username ada -email ada@example.com -password secret-pass -first Ada -last Lovelace
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"go.uber.org/zap"

	"github.com/padraicbc/courseapi/config"
	bundb "github.com/padraicbc/courseapi/db"
	applog "github.com/padraicbc/courseapi/logger"
	"github.com/padraicbc/courseapi/mail"
	"github.com/padraicbc/courseapi/models"
	"github.com/padraicbc/courseapi/service"
)

func main() {
	username := flag.String("username", "", "username (required)")
	email := flag.String("email", "", "email address (required)")
	password := flag.String("password", "", "plain-text password, at least 8 characters (required)")
	first := flag.String("first", "Admin", "first name")
	last := flag.String("last", "User", "last name")
	position := flag.String("position", "Administrator", "position")
	flag.Parse()

	if *username == "" || *email == "" || len(*password) < 8 {
		log.Fatal("-username, -email and a -password of at least 8 characters are required")
	}

	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := bundb.Setup(ctx, cfg)
	if err != nil {
		log.Fatal("database:", err)
	}
	defer db.Close()
	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	auth := service.NewAuthService(db, logger, service.AuthConfig{
		RefreshTTL: cfg.RefreshTokenTTL,
		Mailer:     mail.NewLogSender(cfg.MailFrom, logger),
		PublicURL:  cfg.PublicURL,
	})
	admin, err := auth.RegisterAdmin(ctx, service.RegisterInput{
		Username:  *username,
		Email:     *email,
		Password:  *password,
		FirstName: *first,
		LastName:  *last,
	}, *position)
	if err == nil {
		fmt.Printf("admin %q created (%s)\n", *username, admin.AdminID)
		return
	}
	if !errors.Is(err, service.ErrConflict) {
		log.Fatal("register admin:", err)
	}

	// Existing account: reset its password, admins only.
	hash, err := service.HashPassword(*password)
	if err != nil {
		log.Fatal("hash password:", err)
	}
	res, err := db.NewUpdate().Model((*models.User)(nil)).
		Set("password = ?", hash).
		Set("refresh_token = NULL").
		Where("email = ?", strings.ToLower(strings.TrimSpace(*email))).
		Where("role = ?", models.RoleAdmin).
		Exec(ctx)
	if err != nil {
		log.Fatal("update password:", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Fatalf("%s is taken by a non-admin account", *email)
	}
	logger.Info("admin password reset", zap.String("email", *email))
	fmt.Printf("admin %q password updated\n", *username)
}
