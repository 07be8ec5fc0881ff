package transferHandler

import (
	transferService "ProjectVietQR/internal/api/transfer/service"
	"ProjectVietQR/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TransferHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	transferService transferService.ITransferService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ts transferService.ITransferService,
) *TransferHandler {
	return &TransferHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		transferService: ts,
	}
}

func (h *TransferHandler) Start(srv fiber.Router) {
	tr := srv.Group("/transfer")

	tr.Post("/scan", h.Scan)
	tr.Post("/scan-error", h.ScanError)
	tr.Put("/amount", h.SetAmount)
	tr.Put("/token", h.SetToken)
	tr.Get("/session", h.Session)
	tr.Post("/submit", h.Submit)
	tr.Get("/banks", h.Banks)
}
