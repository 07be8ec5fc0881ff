package neopay

import "fmt"

// TransferRequest is the JSON body of the sandbox bank-transfer simulation
// call. Remark is the only optional field.
type TransferRequest struct {
	Token           string `json:"token"`
	BankCode        string `json:"bankCode"`
	CustomerAccount string `json:"customerAccount"`
	Amount          int64  `json:"amount"`
	Remark          string `json:"remark"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// TransferError is a non-2xx response from the transfer service. Message is
// the service-supplied reason, verbatim, and may be empty.
type TransferError struct {
	StatusCode int
	Message    string
}

func (e *TransferError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("transfer service returned status %d", e.StatusCode)
}
