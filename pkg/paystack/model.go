package paystack

// Metadata travels with a payment intent and comes back on verification.
type Metadata struct {
	UserID    string `json:"user_id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type InitializeRequest struct {
	Email     string   `json:"email"`
	Amount    int64    `json:"amount"`
	Reference string   `json:"reference,omitempty"`
	Metadata  Metadata `json:"metadata"`
}

type InitializeResponse struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    InitializeResponseData `json:"data"`
}

type InitializeResponseData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

const (
	// TransactionStatusSuccess is the provider terminal success status.
	TransactionStatusSuccess = "success"
)

type VerifyResponse struct {
	Status  bool               `json:"status"`
	Message string             `json:"message"`
	Data    VerifyResponseData `json:"data"`
}

type VerifyResponseData struct {
	Status    string   `json:"status"`
	Reference string   `json:"reference"`
	Amount    int64    `json:"amount"`
	Metadata  Metadata `json:"metadata"`
}
