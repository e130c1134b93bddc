package exchange

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"hash"
	"net/url"
	"time"
)

// HMAC signature helpers shared by the per-venue sign implementations.
// Each venue picks a digest and an encoding; the signing payload
// itself is venue-defined.

func hmacSum(payload, secret string, h func() hash.Hash) []byte {
	mac := hmac.New(h, []byte(secret))
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func HMACSHA256Hex(payload, secret string) string {
	return hex.EncodeToString(hmacSum(payload, secret, sha256.New))
}

func HMACSHA256Base64(payload, secret string) string {
	return base64.StdEncoding.EncodeToString(hmacSum(payload, secret, sha256.New))
}

func HMACSHA512Hex(payload, secret string) string {
	return hex.EncodeToString(hmacSum(payload, secret, sha512.New))
}

func HMACSHA512Base64(payload, secret string) string {
	return base64.StdEncoding.EncodeToString(hmacSum(payload, secret, sha512.New))
}

// Urlencode canonicalizes query parameters: stable (sorted) key
// ordering with standard URL escaping, the form every HMAC payload
// here is built over.
func Urlencode(values url.Values) string {
	return values.Encode()
}

// ISO8601 renders a millisecond timestamp the way ISO-timestamp
// venues expect in signing payloads, e.g. 2021-12-31T23:59:59.999Z.
func ISO8601(millis int64) string {
	return time.UnixMilli(millis).UTC().Format("2006-01-02T15:04:05.000Z")
}

// YMDHMS renders a millisecond timestamp as 2006-01-02T15:04:05 UTC,
// the second-resolution form used by sorted-query signers.
func YMDHMS(millis int64) string {
	return time.UnixMilli(millis).UTC().Format("2006-01-02T15:04:05")
}
