package main

import (
	"log/slog"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"

	"github.com/aliramazon/projectify-app-api/pkg/invitetoken"
	"github.com/aliramazon/projectify-app-api/pkg/notification"
	"github.com/aliramazon/projectify-app-api/pkg/password"
	"github.com/aliramazon/projectify-app-api/pkg/session"
	"github.com/aliramazon/projectify-app-api/pkg/teammember"
	teammemberapi "github.com/aliramazon/projectify-app-api/pkg/teammember/api"
)

type JwtConfig struct {
	AdminJwtSecret   string `env:"ADMIN_JWT_SECRET" env-default:"dev-admin-jwt-secret"`
	SessionJwtSecret string `env:"SESSION_JWT_SECRET" env-default:"dev-session-jwt-secret"`
	Issuer           string `env:"JWT_ISSUER" env-default:"projectify-app"`
	Audience         string `env:"JWT_AUDIENCE" env-default:"projectify-app"`
}

type Config struct {
	AppConfig app.AppConfig
	JwtConfig JwtConfig
}

// logNotifier stands in for SMTP during development: invite tokens are
// written to the log instead of being emailed.
type logNotifier struct{}

func (logNotifier) Send(n notification.NotificationData) error {
	slog.Info("Notification", "to", n.To, "subject", n.Subject, "body", n.Body)
	return nil
}

func main() {
	config := Config{}
	cleanenv.ReadEnv(&config)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	sessionIssuer := session.NewJwtIssuer(
		config.JwtConfig.SessionJwtSecret,
		config.JwtConfig.Issuer,
		config.JwtConfig.Audience,
	)

	service := teammember.NewTeamMemberService(
		teammember.NewInMemoryTeamMemberRepository(),
		password.NewBcryptHasher(),
		invitetoken.NewService(),
		logNotifier{},
		sessionIssuer,
	)

	adminAuth := jwtauth.New("HS256", []byte(config.JwtConfig.AdminJwtSecret), nil)
	sessionAuth := jwtauth.New("HS256", []byte(config.JwtConfig.SessionJwtSecret), nil)

	handler := teammemberapi.NewHandler(service)
	handler.RegisterRoutes(server.R, adminAuth, sessionAuth)

	slog.Info("Running with in-memory repository, data is not persisted")
	server.Run()
}
