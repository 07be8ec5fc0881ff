package transferHandler

import (
	"ProjectVietQR/internal/api/transfer"
	"ProjectVietQR/pkg/banks"
	contextPkg "ProjectVietQR/pkg/context"
	"ProjectVietQR/pkg/handlerUtil"
	"ProjectVietQR/pkg/log"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

// Scan receives a raw payload string from the capture collaborator.
func (h *TransferHandler) Scan(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing QR scan")

	var req transfer.ScanRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	response, err := h.transferService.Scan(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "scan_qr")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
	}
}

// ScanError receives the capture collaborator's own failure report.
func (h *TransferHandler) ScanError(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req transfer.ScanErrorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	response, err := h.transferService.ScanError(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "scan_error")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
}

func (h *TransferHandler) SetAmount(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req transfer.AmountRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	response, err := h.transferService.SetAmount(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "set_amount")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
}

func (h *TransferHandler) SetToken(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req transfer.TokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	response, err := h.transferService.SetToken(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "set_token")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
}

func (h *TransferHandler) Session(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	response, err := h.transferService.Session(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
}

func (h *TransferHandler) Submit(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing transfer submission")

	response, err := h.transferService.Submit(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "submit_transfer")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, response)
	}
}

// Banks lists the static directory so clients can show what is routable.
func (h *TransferHandler) Banks(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, banks.All())
}
