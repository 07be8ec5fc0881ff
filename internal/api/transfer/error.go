package transfer

import (
	"ProjectVietQR/pkg/response"
)

var (
	ErrInvalidQr      = response.NewError(400, "QR Code không hợp lệ")
	ErrInvalidToken   = response.NewError(400, "Token không hợp lệ")
	ErrNotReady       = response.NewError(409, "transfer session is not ready to submit")
	ErrSubmitInFlight = response.NewError(409, "a submission is already in progress")
)

// BankNotSupportedLabel is shown in place of a bank name when the decoded
// BIN has no directory entry. An unsupported bank only blocks the Ready
// transition, it is not an error.
const BankNotSupportedLabel = "Không hỗ trợ"
