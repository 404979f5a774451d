package interfaces

// OTPMailer delivers challenge codes. Sends happen in-request so a
// delivery failure surfaces to the caller as SendFailed.
type OTPMailer interface {
	SendVerificationCode(to, name, code string) error
	SendNewVerificationCode(to, name, code string) error
	SendResetCode(to, name, code string) error
}
