package dto

// VerifyOTPResponse is the wire contract of GET /users/{id}/verify_otp. The
// token is present only when the submitted code verified.
type VerifyOTPResponse struct {
	TOTPValid           bool    `json:"totp_valid"`
	AuthenticationToken *string `json:"authentication_token"`
}

type ActivateTOTPRequest struct {
	AuthenticationToken string `json:"authentication_token"`
}

type ProvisioningResponse struct {
	URI    string `json:"uri"`
	QRCode []byte `json:"qrCode"` // PNG, base64 in JSON
}
