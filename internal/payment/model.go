package payment

// LineItem is one product row on a hosted checkout page. UnitAmount is in
// minor currency units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

type SessionRequest struct {
	Currency          string
	SuccessURL        string
	CancelURL         string
	ClientReferenceID string
	Metadata          map[string]string
	Lines             []LineItem
}

// Session is a hosted checkout session created at the provider.
type Session struct {
	ID  string
	URL string
}
