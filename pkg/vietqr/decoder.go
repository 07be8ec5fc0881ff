package vietqr

import (
	"errors"
	"fmt"
)

const (
	// GUIDNapas is the reverse-domain identifier NAPAS registered for the
	// VietQR interbank transfer network.
	GUIDNapas = "A000000727"
	// GUIDVnpay identifies VNPAY merchant-payment templates, which may ride
	// along in dual-network payloads and contribute the merchant id.
	GUIDVnpay = "A000000775"

	ProviderNameVietQR = "VIETQR"
	ProviderNameVNPAY  = "VNPAYQR"
)

const (
	tagVersion        = "00"
	tagInitMethod     = "01"
	tagCategory       = "52"
	tagCurrency       = "53"
	tagAmount         = "54"
	tagTipType        = "55"
	tagTipAmount      = "56"
	tagTipPercent     = "57"
	tagNation         = "58"
	tagMerchantName   = "59"
	tagCity           = "60"
	tagZipCode        = "61"
	tagAdditionalData = "62"
	tagCRC            = "63"
)

var (
	ErrMalformed       = errors.New("malformed TLV payload")
	ErrChecksum        = errors.New("crc mismatch")
	ErrMissingTag      = errors.New("missing mandatory tag")
	ErrUnknownProvider = errors.New("no merchant account template for a supported network")
)

// field is one TLV entry. Group is non-nil when the interpreter recursed
// into the value as a nested template, Value always holds the raw bytes.
type field struct {
	Tag   string
	Value string
	Group template
}

type template []field

func (t template) leaf(tag string) (string, bool) {
	for _, f := range t {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return "", false
}

func (t template) group(tag string) (template, bool) {
	for _, f := range t {
		if f.Tag == tag && f.Group != nil {
			return f.Group, true
		}
	}
	return nil, false
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseTLV scans one flat tag-length-value sequence: 2 decimal digits of
// tag, 2 decimal digits of length, then exactly that many value bytes. It
// does not recurse; nesting is the interpreter's call.
func parseTLV(s string) (template, error) {
	var fields template
	for pos := 0; pos < len(s); {
		if pos+4 > len(s) {
			return nil, fmt.Errorf("%w: truncated entry at offset %d", ErrMalformed, pos)
		}
		tag, length := s[pos:pos+2], s[pos+2:pos+4]
		if !isDigits(tag) || !isDigits(length) {
			return nil, fmt.Errorf("%w: non-numeric tag or length at offset %d", ErrMalformed, pos)
		}
		n := int(length[0]-'0')*10 + int(length[1]-'0')
		if pos+4+n > len(s) {
			return nil, fmt.Errorf("%w: tag %s length %d exceeds input", ErrMalformed, tag, n)
		}
		fields = append(fields, field{Tag: tag, Value: s[pos+4 : pos+4+n]})
		pos += 4 + n
	}
	return fields, nil
}

// parseTemplate recurses into a template value with the same grammar, and
// further into the sub-tags named by deeper. Depth is driven by the caller,
// never assumed.
func parseTemplate(value string, deeper ...string) (template, error) {
	fields, err := parseTLV(value)
	if err != nil {
		return nil, err
	}
	for i, f := range fields {
		for _, tag := range deeper {
			if f.Tag != tag {
				continue
			}
			sub, err := parseTemplate(f.Value)
			if err != nil {
				return nil, err
			}
			fields[i].Group = sub
		}
	}
	return fields, nil
}

// merchant account info templates occupy tags 02-51; only those in the
// 26-51 range carry network GUIDs in this payload shape.
func isMerchantAccountTag(tag string) bool {
	return tag >= "26" && tag <= "51"
}

// Decode parses a raw VietQR payload. It returns a fully populated Record,
// or an error wrapping one of ErrMalformed, ErrChecksum, ErrMissingTag or
// ErrUnknownProvider. It never panics and holds no state between calls.
func Decode(payload string) (*Record, error) {
	fields, err := parseTLV(payload)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformed)
	}

	last := fields[len(fields)-1]
	if last.Tag != tagCRC || len(last.Value) != 4 {
		return nil, fmt.Errorf("%w: crc (63) must be the final entry", ErrMissingTag)
	}
	if computed := ChecksumHex(payload[:len(payload)-4]); computed != last.Value {
		return nil, fmt.Errorf("%w: computed %s, payload carries %s", ErrChecksum, computed, last.Value)
	}

	rec := &Record{CRC: last.Value}
	for _, f := range fields {
		switch {
		case f.Tag == tagVersion:
			rec.Version = f.Value
		case f.Tag == tagInitMethod:
			rec.InitMethod = f.Value
		case isMerchantAccountTag(f.Tag):
			if err := decodeMerchantAccount(rec, f); err != nil {
				return nil, err
			}
		case f.Tag == tagCategory:
			rec.Category = f.Value
		case f.Tag == tagCurrency:
			rec.Currency = f.Value
		case f.Tag == tagAmount:
			rec.Amount = f.Value
		case f.Tag == tagTipType:
			rec.TipAndFeeType = f.Value
		case f.Tag == tagTipAmount:
			rec.TipAndFeeAmount = f.Value
		case f.Tag == tagTipPercent:
			rec.TipAndFeePercent = f.Value
		case f.Tag == tagNation:
			rec.Nation = f.Value
		case f.Tag == tagMerchantName:
			rec.Acquirer.Name = f.Value
		case f.Tag == tagCity:
			rec.City = f.Value
		case f.Tag == tagZipCode:
			rec.ZipCode = f.Value
		case f.Tag == tagAdditionalData:
			if err := decodeAdditionalData(rec, f.Value); err != nil {
				return nil, err
			}
		}
	}

	if rec.Provider.GUID != GUIDNapas {
		return nil, ErrUnknownProvider
	}
	return rec, checkMandatory(rec)
}

// decodeMerchantAccount interprets one merchant account info template.
// Sub-tag 00 is the network GUID; for the NAPAS transfer network sub-tag 01
// is a further nested template whose sub-tag 00 is the bank BIN and sub-tag
// 01 the destination account, and sub-tag 02 the service code. A template
// that does not parse as TLV belongs to some other scheme and is skipped.
func decodeMerchantAccount(rec *Record, f field) error {
	tpl, err := parseTLV(f.Value)
	if err != nil {
		return nil
	}
	guid, ok := tpl.leaf("00")
	if !ok {
		return nil
	}

	switch guid {
	case GUIDNapas:
		tpl, err = parseTemplate(f.Value, "01")
		if err != nil {
			return fmt.Errorf("%w: beneficiary template (38/01)", ErrMalformed)
		}
		sub, ok := tpl.group("01")
		if !ok {
			return fmt.Errorf("%w: beneficiary template (38/01)", ErrMissingTag)
		}
		rec.Provider = Provider{FieldID: f.Tag, GUID: guid, Name: ProviderNameVietQR}
		rec.Provider.Service, _ = tpl.leaf("02")
		rec.Consumer.BankBin, _ = sub.leaf("00")
		rec.Consumer.BankNumber, _ = sub.leaf("01")
	case GUIDVnpay:
		// Dual-network payloads: the VNPAY template carries the merchant id.
		rec.Acquirer.ID, _ = tpl.leaf("01")
	}
	return nil
}

func decodeAdditionalData(rec *Record, value string) error {
	tpl, err := parseTLV(value)
	if err != nil {
		return fmt.Errorf("%w: additional data template (62)", ErrMalformed)
	}
	for _, f := range tpl {
		switch f.Tag {
		case "01":
			rec.AdditionalData.BillNumber = f.Value
		case "02":
			rec.AdditionalData.MobileNumber = f.Value
		case "03":
			rec.AdditionalData.Store = f.Value
		case "04":
			rec.AdditionalData.LoyaltyNumber = f.Value
		case "05":
			rec.AdditionalData.Reference = f.Value
		case "06":
			rec.AdditionalData.CustomerLabel = f.Value
		case "07":
			rec.AdditionalData.Terminal = f.Value
		case "08":
			rec.AdditionalData.Purpose = f.Value
		case "09":
			rec.AdditionalData.DataRequest = f.Value
		}
	}
	return nil
}

func checkMandatory(rec *Record) error {
	required := []struct {
		value string
		name  string
	}{
		{rec.Version, "version (00)"},
		{rec.InitMethod, "init method (01)"},
		{rec.Consumer.BankBin, "bank bin (38/01/00)"},
		{rec.Consumer.BankNumber, "account number (38/01/01)"},
		{rec.Category, "merchant category (52)"},
		{rec.Currency, "currency (53)"},
		{rec.Nation, "country (58)"},
		{rec.Acquirer.Name, "merchant name (59)"},
		{rec.City, "city (60)"},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingTag, r.name)
		}
	}
	return nil
}
