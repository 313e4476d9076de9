package order

// QueryOrdersModel represents filter parameters for querying orders.
type QueryOrdersModel struct {
	Ids                []int64  `json:"ids,omitempty"`
	Statuses           []Status `json:"statuses,omitempty"`
	CustomerIds        []int64  `json:"customerIds,omitempty"`
	PaymentProviderIds []string `json:"paymentProviderIds,omitempty"`
	Limit              int      `json:"limit,omitempty"`
	Offset             int      `json:"offset,omitempty"`

	// ForUpdate locks the matched rows until the surrounding transaction ends.
	ForUpdate bool `json:"-"`
}
