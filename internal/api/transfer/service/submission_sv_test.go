package transferService

import (
	"ProjectVietQR/internal/api/transfer"
	"ProjectVietQR/internal/entity"
	"ProjectVietQR/pkg/neopay"
	"ProjectVietQR/pkg/vietqr"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validToken = "550e8400-e29b-41d4-a716-446655440000"

func tlv(tag, value string) string {
	return fmt.Sprintf("%s%02d%s", tag, len(value), value)
}

func transferPayload(bin, account, purpose string) string {
	beneficiary := tlv("00", bin) + tlv("01", account)
	provider := tlv("00", vietqr.GUIDNapas) + tlv("01", beneficiary) + tlv("02", "QRIBFTTA")

	body := tlv("00", "01") +
		tlv("01", "11") +
		tlv("38", provider) +
		tlv("52", "0000") +
		tlv("53", "704") +
		tlv("58", "VN") +
		tlv("59", "NGUYEN VAN A") +
		tlv("60", "HANOI")
	if purpose != "" {
		body += tlv("62", tlv("08", purpose))
	}

	head := body + "6304"
	return head + vietqr.ChecksumHex(head)
}

func newTestService(t *testing.T, handler http.HandlerFunc) ITransferService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("NEOPAY_BASE_URL", srv.URL)
	t.Setenv("ACCESS_TOKEN", "")

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewTransferService(logger, neopay.New(logger))
}

// makeReady walks a fresh session to the Ready state.
func makeReady(t *testing.T, s ITransferService) {
	t.Helper()
	ctx := context.Background()

	scan, err := s.Scan(ctx, transfer.ScanRequest{Payload: transferPayload("970422", "0123456789", "invoice 42")})
	require.NoError(t, err)
	require.True(t, scan.BankSupported)

	_, err = s.SetToken(ctx, transfer.TokenRequest{Token: validToken})
	require.NoError(t, err)

	amount, err := s.SetAmount(ctx, transfer.AmountRequest{Amount: 250000})
	require.NoError(t, err)
	require.Equal(t, entity.SubmissionReady, amount.State)
}

func TestScan_SupportedBank(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})

	resp, err := s.Scan(context.Background(), transfer.ScanRequest{
		Payload: transferPayload("970422", "0123456789", "invoice 42"),
	})
	require.NoError(t, err)

	assert.Equal(t, "MB BANK", resp.BankShortName)
	assert.True(t, resp.BankSupported)
	assert.Equal(t, "0123456789", resp.AccountNumber)
	assert.Equal(t, "NGUYEN VAN A", resp.MerchantName)
	assert.Equal(t, "invoice 42", resp.Remark)
	assert.Equal(t, entity.SubmissionScanned, resp.State)
}

func TestScan_UnsupportedBank(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	resp, err := s.Scan(ctx, transfer.ScanRequest{Payload: transferPayload("999999", "0123456789", "")})
	require.NoError(t, err)

	assert.Equal(t, transfer.BankNotSupportedLabel, resp.BankShortName)
	assert.False(t, resp.BankSupported)

	// Even with a valid token and amount the session never becomes Ready.
	_, err = s.SetToken(ctx, transfer.TokenRequest{Token: validToken})
	require.NoError(t, err)
	session, err := s.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.SubmissionScanned, session.State)
}

func TestScan_InvalidPayloadResetsSession(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	_, err := s.Scan(ctx, transfer.ScanRequest{Payload: transferPayload("970422", "0123456789", "")})
	require.NoError(t, err)

	_, err = s.Scan(ctx, transfer.ScanRequest{Payload: "garbage"})
	assert.ErrorIs(t, err, transfer.ErrInvalidQr)

	session, err := s.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.SubmissionIdle, session.State)
	assert.Empty(t, session.AccountNumber)
	assert.Equal(t, transfer.ErrInvalidQr.Error(), session.LastScanError)
}

func TestScanError_ResetsSession(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	_, err := s.Scan(ctx, transfer.ScanRequest{Payload: transferPayload("970422", "0123456789", "")})
	require.NoError(t, err)

	session, err := s.ScanError(ctx, transfer.ScanErrorRequest{Message: "NotAllowedError: camera denied"})
	require.NoError(t, err)

	assert.Equal(t, entity.SubmissionIdle, session.State)
	assert.Equal(t, "NotAllowedError: camera denied", session.LastScanError)
}

func TestSetToken_Invalid(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := s.SetToken(context.Background(), transfer.TokenRequest{Token: "not-a-token"})
	assert.ErrorIs(t, err, transfer.ErrInvalidToken)
}

func TestSetAmount_Clamps(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	resp, err := s.SetAmount(ctx, transfer.AmountRequest{Amount: 500_000_000})
	require.NoError(t, err)
	assert.Equal(t, int64(499_000_000), resp.Amount)
	assert.True(t, resp.Valid)

	resp, err = s.SetAmount(ctx, transfer.AmountRequest{Amount: -5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Amount)
}

func TestNew_InitialTokenFromEnvironment(t *testing.T) {
	t.Setenv("ACCESS_TOKEN", validToken)
	t.Setenv("NEOPAY_BASE_URL", "http://localhost:0")

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := NewTransferService(logger, neopay.New(logger))

	session, err := s.Session(context.Background())
	require.NoError(t, err)
	assert.True(t, session.TokenSet)
	assert.True(t, session.TokenValid)
	assert.Equal(t, transfer.DefaultAmount, session.Amount)
}

func TestSubmit_NotReady(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be sent before Ready")
	})

	_, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, transfer.ErrNotReady)
}

func TestSubmit_Success(t *testing.T) {
	var requests int
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	makeReady(t, s)

	resp, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Chuyển tiền thành công", resp.Message)
	assert.Equal(t, entity.SubmissionSucceeded, resp.Result)
	assert.Equal(t, entity.SubmissionIdle, resp.State)
	assert.Equal(t, 1, requests)

	session, err := s.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.SubmissionSucceeded, session.LastResult)

	// The record is consumed; a second submit needs a fresh scan.
	_, err = s.Submit(ctx)
	assert.ErrorIs(t, err, transfer.ErrNotReady)
}

func TestSubmit_FailureKeepsAmountAndToken(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"insufficient funds"}`))
	})
	ctx := context.Background()

	makeReady(t, s)

	_, err := s.Submit(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Chuyển tiền thất bại. Lý do: insufficient funds")

	session, err := s.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.SubmissionIdle, session.State, "the record is cleared on failure")
	assert.Equal(t, entity.SubmissionFailed, session.LastResult)
	assert.Equal(t, int64(250000), session.Amount, "the amount survives for retry")
	assert.True(t, session.TokenValid, "the token survives for retry")

	// A fresh scan starts a new attempt and discards the stale outcome.
	_, err = s.Scan(ctx, transfer.ScanRequest{Payload: transferPayload("970422", "0123456789", "")})
	require.NoError(t, err)
	session, err = s.Session(ctx)
	require.NoError(t, err)
	assert.Empty(t, session.LastResult)
}

func TestSubmit_SingleFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	requests := 0

	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})
	ctx := context.Background()

	makeReady(t, s)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(ctx)
		done <- err
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first submission never reached the transfer service")
	}

	session, err := s.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.SubmissionSubmitting, session.State)

	_, err = s.Submit(ctx)
	assert.ErrorIs(t, err, transfer.ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, requests, "exactly one outbound request")
}
