package dto

type ChoosePaymentRequest struct {
	Code string `json:"code"`
}

type DeletePaymentProfileRequest struct {
	Code string `json:"code"`
}

// CheckoutResponse is the wire shape of a checkout action outcome:
// either a redirect, a set of region partials, or a flash warning with
// the submitted input echoed back. An empty body means "stay put".
type CheckoutResponse struct {
	Redirect string                 `json:"redirect,omitempty"`
	Partials map[string]string      `json:"partials,omitempty"`
	Flash    string                 `json:"flash,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}
