// Package banks is the static directory of banks the transfer simulator can
// route to, keyed by BIN (bank identification number).
package banks

type Bank struct {
	SwiftCode string `json:"swiftCode"`
	Bin       string `json:"bin"`
	ShortName string `json:"shortName"`
	BankCode  string `json:"bankCode"`
}

var supported = []Bank{
	{SwiftCode: "MSCBVNVX", Bin: "970422", ShortName: "MB BANK", BankCode: "mbbank"},
	{SwiftCode: "HVBKVNVX", Bin: "970457", ShortName: "Wooribank", BankCode: "wooribank"},
	{SwiftCode: "VCBCVNVX", Bin: "970454", ShortName: "Viet Capital Bank", BankCode: "banvietbank"},
	{SwiftCode: "ICBVVNVX", Bin: "970415", ShortName: "VietinBank", BankCode: "vietinbank"},
}

// Resolve looks up a bank by BIN. A missing entry means the bank is not
// supported, which is a normal outcome rather than an error.
func Resolve(bin string) (*Bank, bool) {
	for i := range supported {
		if supported[i].Bin == bin {
			b := supported[i]
			return &b, true
		}
	}
	return nil, false
}

// All returns the directory in a stable order, for display purposes.
func All() []Bank {
	out := make([]Bank, len(supported))
	copy(out, supported)
	return out
}
