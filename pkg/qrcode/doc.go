// Package qrcode renders otpauth URIs as QR codes so a credential held by the
// primary node can be exported to another authenticator. It wraps
// github.com/skip2/go-qrcode.
//
//	png, err := qrcode.ForKey(otpauth.FromParams(cred.Params, issuer, account), 256)
package qrcode
