// Package vietqr decodes EMVCo merchant-presented QR payloads as localized
// for Vietnamese interbank transfer (VietQR, NAPAS). It is not a general EMV
// QR library; it targets the fixed field set of the interbank transfer
// payload.
package vietqr

// Record is the structured result of a successful decode. All mandatory
// fields are guaranteed present; a payload that fails decoding never
// produces a Record.
type Record struct {
	Version          string
	InitMethod       string
	Provider         Provider
	Consumer         Consumer
	Category         string
	Currency         string
	Amount           string
	TipAndFeeType    string
	TipAndFeeAmount  string
	TipAndFeePercent string
	Nation           string
	Acquirer         Acquirer
	City             string
	ZipCode          string
	AdditionalData   AdditionalData
	CRC              string
}

// Provider identifies the payment network that owns the merchant account
// info template the payload was matched against.
type Provider struct {
	FieldID string
	GUID    string
	Name    string
	Service string
}

// Consumer carries the transfer destination extracted from the nested
// beneficiary template.
type Consumer struct {
	BankBin    string
	BankNumber string
}

type Acquirer struct {
	Name string
	ID   string
}

// AdditionalData holds the optional tag 62 sub-fields. Absent sub-tags stay
// empty.
type AdditionalData struct {
	BillNumber    string
	MobileNumber  string
	Store         string
	LoyaltyNumber string
	Reference     string
	CustomerLabel string
	Terminal      string
	DataRequest   string
	Purpose       string
}
