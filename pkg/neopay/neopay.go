// Package neopay is the client for the NeoPay merchant sandbox, the
// external service that executes simulated interbank transfers.
package neopay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://sandbox-portal.neopay.vn/merchant/api/v1"
	transferPath   = "/merchant/simulation/request-bank-transfer"
)

type INeoPayService interface {
	RequestBankTransfer(ctx context.Context, req TransferRequest) error
}

type neoPayService struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

// New builds a client against NEOPAY_BASE_URL, falling back to the public
// sandbox endpoint.
func New(log *logrus.Logger) INeoPayService {
	baseURL := os.Getenv("NEOPAY_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &neoPayService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

func (n *neoPayService) RequestBankTransfer(ctx context.Context, req TransferRequest) error {
	body, err := jsoniter.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal transfer request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+transferPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build transfer request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(httpReq)
	if err != nil {
		n.log.WithError(err).Error("Bank transfer request failed before reaching the service")
		return fmt.Errorf("request bank transfer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		n.log.WithFields(logrus.Fields{
			"bank_code": req.BankCode,
			"amount":    req.Amount,
			"status":    resp.StatusCode,
		}).Info("Bank transfer accepted")
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var errBody errorResponse
	_ = jsoniter.Unmarshal(respBody, &errBody)

	n.log.WithFields(logrus.Fields{
		"bank_code": req.BankCode,
		"amount":    req.Amount,
		"status":    resp.StatusCode,
		"message":   errBody.Message,
	}).Error("Bank transfer rejected")

	return &TransferError{StatusCode: resp.StatusCode, Message: errBody.Message}
}
