package handler

import (
	"bijles-engels/backend/config"
	"bijles-engels/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Availability *AvailabilityHandler
	Registration *RegistrationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth, cfg),
		Availability: NewAvailabilityHandler(svc.Availability),
		Registration: NewRegistrationHandler(svc.Registration),
		Export:       NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
