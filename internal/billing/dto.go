package billing

// DebtRequest adds a previous debt to the customer's general account.
type DebtRequest struct {
	Amount string `json:"amount" validate:"required,max=32"`
	Notes  string `json:"notes" validate:"max=1000"`
	PaidAt string `json:"paid_at" validate:"omitempty,max=40"`
}

// AccountPaymentRequest records money received. ToGeneral defaults to true.
type AccountPaymentRequest struct {
	Amount         string `json:"amount" validate:"required,max=32"`
	Method         string `json:"method" validate:"max=100"`
	Reference      string `json:"reference" validate:"max=200"`
	Notes          string `json:"notes" validate:"max=1000"`
	PaidAt         string `json:"paid_at" validate:"omitempty,max=40"`
	ToGeneral      *bool  `json:"to_general"`
	ContractNumber string `json:"contract_number" validate:"max=32"`
}

// General reports whether the payment goes to the general account.
func (r AccountPaymentRequest) General() bool {
	return r.ToGeneral == nil || *r.ToGeneral
}

// EntryUpdateRequest edits a recorded receipt.
type EntryUpdateRequest struct {
	Amount    string `json:"amount" validate:"required,max=32"`
	Method    string `json:"method" validate:"max=100"`
	Reference string `json:"reference" validate:"max=200"`
	Notes     string `json:"notes" validate:"max=1000"`
	PaidAt    string `json:"paid_at" validate:"omitempty,max=40"`
}

// InvoiceLineInput edits one seeded invoice line, picked by its position in
// the seeded lines or by contract number. A number shared by several
// contracts must be edited by position.
type InvoiceLineInput struct {
	Index          *int    `json:"index" validate:"omitempty,gte=0"`
	ContractNumber string  `json:"contract_number" validate:"required_without=Index,max=32"`
	Quantity       *int    `json:"quantity" validate:"omitempty,gte=0,lte=100000"`
	UnitPrice      *string `json:"unit_price" validate:"omitempty,max=32"`
}

// InvoiceRequest composes an invoice. Lines not mentioned keep their seeded
// values; an empty Lines slice previews the seeded invoice as is.
type InvoiceRequest struct {
	Lines          []InvoiceLineInput `json:"lines" validate:"dive"`
	IncludeAccount bool               `json:"include_account"`
}
