package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/adityarw/registration-service/internal/interface/http"
)

// RegistrationModule wires the registration HTTP handlers into routes.
// Public: POST /api/register, GET /api/verify-email, GET /api/healthz
type RegistrationModule struct {
	Handler *handlers.RegistrationHandler
}

func NewRegistrationModule(h *handlers.RegistrationHandler) *RegistrationModule {
	return &RegistrationModule{Handler: h}
}

func (m *RegistrationModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Handler.Register)
	rg.GET("/verify-email", m.Handler.VerifyEmail)
	rg.GET("/healthz", m.Handler.Healthz)
}
