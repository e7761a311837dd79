package entity

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/po-extract/constants"
)

// HeaderFields holds the key business fields of a purchase order.
// Every field defaults to "" except Currency.
type HeaderFields struct {
	CompanyCode       string `json:"companyCode"`
	CompanyName       string `json:"companyName"`
	CustomerGSTIN     string `json:"customerGstin"`
	BillingAddress    string `json:"billingAddress"`
	PONumber          string `json:"poNumber"`
	PODate            string `json:"poDate"` // ISO YYYY-MM-DD, or the raw text when unresolved
	PaymentTerms      string `json:"paymentTerms"`
	CreditDays        string `json:"creditDays"`
	FreightTerms      string `json:"freightTerms"`
	PackingForwarding string `json:"packingForwarding"`
	InsuranceTerms    string `json:"insuranceTerms"`
	Currency          string `json:"currency"`
	DeliveryTerms     string `json:"deliveryTerms"`
	Remarks           string `json:"remarks"`
	Plant             string `json:"plant"`
	OrderType         string `json:"orderType"`
}

// NewHeaderFields returns a header with type defaults applied.
func NewHeaderFields() HeaderFields {
	return HeaderFields{Currency: constants.DefaultCurrency}
}

// LineItem is one canonical purchase order line.
type LineItem struct {
	DrawingNo         string          `json:"drawingNo"`
	Description       string          `json:"description"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit"`
	Rate              decimal.Decimal `json:"rate"`
	CGSTPercent       decimal.Decimal `json:"cgstPercent"`
	SGSTPercent       decimal.Decimal `json:"sgstPercent"`
	IGSTPercent       decimal.Decimal `json:"igstPercent"`
	DeliveryDate      *string         `json:"deliveryDate"`
	Discount          decimal.Decimal `json:"discount"`
	HSNCode           string          `json:"hsnCode,omitempty"`
	RevisionNo        string          `json:"revisionNo,omitempty"`
	PurchaseReqNo     string          `json:"purchaseReqNo,omitempty"`
	CustomerReference string          `json:"customerReference,omitempty"`
	DrawingFile       string          `json:"drawingFile,omitempty"`
	Remarks           string          `json:"remarks,omitempty"`
}

// ApplyDefaults fills the documented defaults. position is the 1-based index of the
// item in the result and is used to synthesize a drawing number. A zero quantity is
// what an unparsable quantity normalizes to, so it becomes 1.
func (li *LineItem) ApplyDefaults(position int) {
	if li.DrawingNo == "" {
		li.DrawingNo = "DRW-" + strconv.Itoa(position)
	}
	if li.Quantity.IsZero() {
		li.Quantity = decimal.NewFromInt(1)
	}
	if li.Unit == "" {
		li.Unit = constants.DefaultUnit
	}
}

// ParseResult is the sole output of the extraction engine.
type ParseResult struct {
	Header HeaderFields `json:"header"`
	Items  []LineItem   `json:"items"`
}
