// Package auth provides the DVRIP credential digest.
//
// It intentionally avoids policy decisions and storage concerns.
package auth

import "crypto/md5"

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Digest folds an MD5 of the password into the 8-character alphanumeric
// form the firmware expects in login bodies. The scheme offers no real
// secrecy; it is simply what the devices speak.
func Digest(password string) string {
	sum := md5.Sum([]byte(password))
	out := make([]byte, 8)
	for i := range out {
		n := (uint16(sum[2*i]) + uint16(sum[2*i+1])) % uint16(len(alphabet))
		out[i] = alphabet[n]
	}
	return string(out)
}
