package transferService

import (
	"ProjectVietQR/internal/api/transfer"
	"ProjectVietQR/internal/entity"
	"ProjectVietQR/pkg/banks"
	contextPkg "ProjectVietQR/pkg/context"
	"ProjectVietQR/pkg/log"
	"ProjectVietQR/pkg/neopay"
	"ProjectVietQR/pkg/response"
	"ProjectVietQR/pkg/vietqr"
	"context"
	"errors"
	"fmt"
)

// refreshLocked recomputes the resting state from the session tuple. The
// caller must hold s.mu. An in-flight submission pins the state to
// Submitting regardless of concurrent edits.
func (s *transferService) refreshLocked() entity.SubmissionState {
	switch {
	case s.inFlight:
		s.state = entity.SubmissionSubmitting
	case s.record == nil:
		s.state = entity.SubmissionIdle
	case s.bank != nil && transfer.ValidToken(s.token) && transfer.ValidAmount(s.amount):
		s.state = entity.SubmissionReady
	default:
		s.state = entity.SubmissionScanned
	}
	return s.state
}

func (s *transferService) sessionLocked() *transfer.SessionResponse {
	resp := &transfer.SessionResponse{
		State:         s.refreshLocked(),
		Amount:        s.amount,
		TokenSet:      s.token != "",
		TokenValid:    transfer.ValidToken(s.token),
		LastScanError: s.lastScanError,
		LastResult:    s.lastResult,
	}
	if s.record != nil {
		resp.AccountNumber = s.record.Consumer.BankNumber
		resp.BankShortName = transfer.BankNotSupportedLabel
		if s.bank != nil {
			resp.BankShortName = s.bank.ShortName
		}
	}
	return resp
}

// Scan decodes a captured payload and replaces any previous record. A
// decode failure of any kind resets the session to Idle and is reported as
// a message, never as a panic.
func (s *transferService) Scan(ctx context.Context, req transfer.ScanRequest) (*transfer.ScanResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	record, err := vietqr.Decode(req.Payload)
	if err != nil {
		s.mu.Lock()
		s.record = nil
		s.bank = nil
		s.lastScanError = transfer.ErrInvalidQr.Error()
		s.refreshLocked()
		s.mu.Unlock()

		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Rejected QR payload")
		return nil, transfer.ErrInvalidQr
	}

	bank, supported := banks.Resolve(record.Consumer.BankBin)

	s.mu.Lock()
	s.record = record
	s.bank = bank
	s.lastScanError = ""
	s.lastResult = ""
	state := s.refreshLocked()
	s.mu.Unlock()

	resp := &transfer.ScanResponse{
		BankShortName: transfer.BankNotSupportedLabel,
		BankSupported: supported,
		AccountNumber: record.Consumer.BankNumber,
		MerchantName:  record.Acquirer.Name,
		Remark:        record.AdditionalData.Purpose,
		State:         state,
	}
	if supported {
		resp.BankShortName = bank.ShortName
	}

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"bank_bin":   record.Consumer.BankBin,
		"supported":  supported,
		"state":      state,
	}).Info("QR payload decoded")

	return resp, nil
}

// ScanError records a failure reported by the capture collaborator and
// discards the current record.
func (s *transferService) ScanError(ctx context.Context, req transfer.ScanErrorRequest) (*transfer.SessionResponse, error) {
	s.mu.Lock()
	s.record = nil
	s.bank = nil
	s.lastScanError = req.Message
	resp := s.sessionLocked()
	s.mu.Unlock()

	s.log.WithFields(log.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"message":    req.Message,
	}).Warn("Capture collaborator reported an error")

	return resp, nil
}

func (s *transferService) SetAmount(ctx context.Context, req transfer.AmountRequest) (*transfer.AmountResponse, error) {
	clamped := transfer.ClampAmount(req.Amount)

	s.mu.Lock()
	s.amount = clamped
	state := s.refreshLocked()
	s.mu.Unlock()

	return &transfer.AmountResponse{
		Amount: clamped,
		Valid:  transfer.ValidAmount(clamped),
		State:  state,
	}, nil
}

func (s *transferService) SetToken(ctx context.Context, req transfer.TokenRequest) (*transfer.SessionResponse, error) {
	if !transfer.ValidToken(req.Token) {
		s.log.WithFields(log.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
		}).Warn("Rejected access token")
		return nil, transfer.ErrInvalidToken
	}

	s.mu.Lock()
	s.token = req.Token
	resp := s.sessionLocked()
	s.mu.Unlock()

	return resp, nil
}

func (s *transferService) Session(ctx context.Context) (*transfer.SessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionLocked(), nil
}

// Submit issues the transfer for the current session. It is callable only
// from Ready, and at most one submission may be outstanding: a second call
// while Submitting is rejected without sending anything. Success clears the
// consumed record; failure also clears it but keeps amount and token so the
// user can rescan and retry.
func (s *transferService) Submit(ctx context.Context) (*transfer.SubmitResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, transfer.ErrSubmitInFlight
	}
	if s.refreshLocked() != entity.SubmissionReady {
		s.mu.Unlock()
		return nil, transfer.ErrNotReady
	}

	req := neopay.TransferRequest{
		Token:           s.token,
		BankCode:        s.bank.BankCode,
		CustomerAccount: s.record.Consumer.BankNumber,
		Amount:          transfer.ClampAmount(s.amount),
		Remark:          s.record.AdditionalData.Purpose,
	}
	s.inFlight = true
	s.state = entity.SubmissionSubmitting
	s.mu.Unlock()

	err := s.neopayService.RequestBankTransfer(ctx, req)

	s.mu.Lock()
	s.inFlight = false
	s.record = nil
	s.bank = nil
	if err != nil {
		s.lastResult = entity.SubmissionFailed
	} else {
		s.lastResult = entity.SubmissionSucceeded
	}
	state := s.refreshLocked()
	s.mu.Unlock()

	if err != nil {
		reason := err.Error()
		var te *neopay.TransferError
		if errors.As(err, &te) && te.Message != "" {
			reason = te.Message
		}

		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"bank_code":  req.BankCode,
			"amount":     req.Amount,
			"error":      err.Error(),
		}).Error("Bank transfer failed")

		return nil, response.NewError(502, fmt.Sprintf("Chuyển tiền thất bại. Lý do: %s", reason))
	}

	s.log.WithFields(log.Fields{
		"request_id": requestID,
		"bank_code":  req.BankCode,
		"amount":     req.Amount,
	}).Info("Bank transfer succeeded")

	return &transfer.SubmitResponse{
		Message: "Chuyển tiền thành công",
		Result:  entity.SubmissionSucceeded,
		State:   state,
	}, nil
}
