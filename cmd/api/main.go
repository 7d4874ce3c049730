package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/aliramazon/projectify-app-api/pkg/invitetoken"
	"github.com/aliramazon/projectify-app-api/pkg/notification"
	"github.com/aliramazon/projectify-app-api/pkg/password"
	"github.com/aliramazon/projectify-app-api/pkg/session"
	"github.com/aliramazon/projectify-app-api/pkg/teammember"
	teammemberapi "github.com/aliramazon/projectify-app-api/pkg/teammember/api"
)

type AppDbConfig struct {
	Host     string `env:"APP_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"APP_PG_PORT" env-default:"5432"`
	Database string `env:"APP_PG_DATABASE" env-default:"projectify_db"`
	User     string `env:"APP_PG_USER" env-default:"projectify"`
	Password string `env:"APP_PG_PASSWORD" env-default:"pwd"`
}

func (d AppDbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

type JwtConfig struct {
	AdminJwtSecret   string `env:"ADMIN_JWT_SECRET" env-default:"very-secure-admin-jwt-secret"`
	SessionJwtSecret string `env:"SESSION_JWT_SECRET" env-default:"very-secure-session-jwt-secret"`
	Issuer           string `env:"JWT_ISSUER" env-default:"projectify-app"`
	Audience         string `env:"JWT_AUDIENCE" env-default:"projectify-app"`
	SessionExpiry    string `env:"SESSION_EXPIRY" env-default:"48h"`
}

type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     int    `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME" env-default:""`
	Password string `env:"EMAIL_PASSWORD" env-default:""`
	From     string `env:"EMAIL_FROM" env-default:"noreply@projectify.app"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
}

type Config struct {
	AppDbConfig AppDbConfig
	AppConfig   app.AppConfig
	JwtConfig   JwtConfig
	EmailConfig EmailConfig
}

func main() {
	config := Config{}
	cleanenv.ReadEnv(&config)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbConfig := config.AppDbConfig.toDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	notifier, err := notification.NewEmailNotifier(notification.SMTPConfig{
		Host:     config.EmailConfig.Host,
		Port:     config.EmailConfig.Port,
		TLS:      config.EmailConfig.TLS,
		Username: config.EmailConfig.Username,
		Password: config.EmailConfig.Password,
		From:     config.EmailConfig.From,
	})
	if err != nil {
		slog.Error("Failed creating email notifier", "err", err)
		os.Exit(-1)
	}

	sessionExpiry, err := time.ParseDuration(config.JwtConfig.SessionExpiry)
	if err != nil {
		slog.Warn("Invalid SESSION_EXPIRY, using default", "value", config.JwtConfig.SessionExpiry)
		sessionExpiry = session.DefaultSessionExpiry
	}

	sessionIssuer := session.NewJwtIssuer(
		config.JwtConfig.SessionJwtSecret,
		config.JwtConfig.Issuer,
		config.JwtConfig.Audience,
	)

	repo := teammember.NewPostgresTeamMemberRepository(pool)
	service := teammember.NewTeamMemberService(
		repo,
		password.NewBcryptHasher(),
		invitetoken.NewService(),
		notifier,
		sessionIssuer,
		teammember.WithSessionExpiry(sessionExpiry),
	)

	adminAuth := jwtauth.New("HS256", []byte(config.JwtConfig.AdminJwtSecret), nil)
	sessionAuth := jwtauth.New("HS256", []byte(config.JwtConfig.SessionJwtSecret), nil)

	handler := teammemberapi.NewHandler(service)
	handler.RegisterRoutes(server.R, adminAuth, sessionAuth)

	server.Run()
}
