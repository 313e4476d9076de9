package payment

// Provider statuses the order lifecycle reacts to. Any other value is stored as is.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Payment is the payment sub-record of an order.
type Payment struct {
	AmountCents int64  `json:"amountCents"`
	Description string `json:"description"`
	QRCode      string `json:"qrCode"`
	Status      string `json:"status"`
	ProviderID  string `json:"providerId"`
}

// Charge is a request to the payment provider for a new payment.
type Charge struct {
	AmountCents       int64
	Description       string
	ExternalReference string
	PayerEmail        string
}

// ProviderPayment is the provider view of a payment.
type ProviderPayment struct {
	ID     string
	Status string
	QRCode string
}
