package transfer

import "ProjectVietQR/internal/entity"

type ScanRequest struct {
	Payload string `json:"payload" validate:"required"`
}

type ScanErrorRequest struct {
	Message string `json:"message" validate:"required"`
}

type AmountRequest struct {
	Amount int64 `json:"amount"`
}

type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type ScanResponse struct {
	BankShortName string                 `json:"bank_short_name"`
	BankSupported bool                   `json:"bank_supported"`
	AccountNumber string                 `json:"account_number"`
	MerchantName  string                 `json:"merchant_name"`
	Remark        string                 `json:"remark"`
	State         entity.SubmissionState `json:"state"`
}

type AmountResponse struct {
	Amount int64                  `json:"amount"`
	Valid  bool                   `json:"valid"`
	State  entity.SubmissionState `json:"state"`
}

type SessionResponse struct {
	State         entity.SubmissionState `json:"state"`
	Amount        int64                  `json:"amount"`
	TokenSet      bool                   `json:"token_set"`
	TokenValid    bool                   `json:"token_valid"`
	BankShortName string                 `json:"bank_short_name,omitempty"`
	AccountNumber string                 `json:"account_number,omitempty"`
	LastScanError string                 `json:"last_scan_error,omitempty"`
	LastResult    entity.SubmissionState `json:"last_result,omitempty"`
}

type SubmitResponse struct {
	Message string                 `json:"message"`
	Result  entity.SubmissionState `json:"result"`
	State   entity.SubmissionState `json:"state"`
}
