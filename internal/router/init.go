package router

import (
	"github.com/adityarw/registration-service/internal/application"
	"github.com/adityarw/registration-service/internal/container"
	pginfra "github.com/adityarw/registration-service/internal/infrastructure/postgres"
	handlers "github.com/adityarw/registration-service/internal/interface/http"
	"github.com/adityarw/registration-service/internal/router/modules"
)

func buildRegistrationHandler() *handlers.RegistrationHandler {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	// Avoid a typed-nil interface when the publisher was never constructed
	// (MAIL_SEND_ENABLED=false).
	var mail application.MailPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}

	reg := application.NewRegistrationService(
		repo,
		container.GetHasher(),
		container.GetTokens(),
		mail,
		container.GetLogger(),
		cfg.AppName,
		cfg.VerifyEmailURL,
		cfg.MailSendEnabled,
	)
	ver := application.NewVerificationService(
		repo,
		container.GetTokens(),
		container.GetRedis(),
		container.GetLogger(),
	)

	return handlers.NewRegistrationHandler(reg, ver, container.GetLogger())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	r.Add(modules.NewRegistrationModule(buildRegistrationHandler()))
}
