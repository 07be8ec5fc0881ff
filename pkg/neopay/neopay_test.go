package neopay

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) INeoPayService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("NEOPAY_BASE_URL", srv.URL)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(logger)
}

func TestRequestBankTransfer_Success(t *testing.T) {
	var got TransferRequest

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/merchant/simulation/request-bank-transfer", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, jsoniter.Unmarshal(body, &got))

		w.WriteHeader(http.StatusOK)
	})

	err := client.RequestBankTransfer(context.Background(), TransferRequest{
		Token:           "550e8400-e29b-41d4-a716-446655440000",
		BankCode:        "mbbank",
		CustomerAccount: "0123456789",
		Amount:          250000,
		Remark:          "invoice 42",
	})
	require.NoError(t, err)

	assert.Equal(t, "mbbank", got.BankCode)
	assert.Equal(t, "0123456789", got.CustomerAccount)
	assert.Equal(t, int64(250000), got.Amount)
	assert.Equal(t, "invoice 42", got.Remark)
}

func TestRequestBankTransfer_ServiceMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"insufficient funds"}`))
	})

	err := client.RequestBankTransfer(context.Background(), TransferRequest{})
	require.Error(t, err)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadRequest, te.StatusCode)
	assert.Equal(t, "insufficient funds", te.Message)
	assert.Equal(t, "insufficient funds", te.Error())
}

func TestRequestBankTransfer_NoMessageBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.RequestBankTransfer(context.Background(), TransferRequest{})
	require.Error(t, err)

	var te *TransferError
	require.ErrorAs(t, err, &te)
	assert.Empty(t, te.Message)
	assert.Contains(t, te.Error(), "500")
}

func TestRequestBankTransfer_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	t.Setenv("NEOPAY_BASE_URL", srv.URL)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := New(logger)

	err := client.RequestBankTransfer(context.Background(), TransferRequest{})
	require.Error(t, err)

	var te *TransferError
	assert.False(t, errors.As(err, &te), "transport failures are not TransferErrors")
}
