// Package extract recovers playable HLS playlists from the obfuscated
// player configuration embedded in playback pages, driving the decode
// pipeline and the resolver-endpoint fallback chain.
package extract

import (
	"encoding/base64"
	"net/url"
	"strings"
	"unicode/utf8"
)

// DecodeURL applies the decode pipeline selected by the encrypt-type code:
// 0 and 1 percent-decode the value (the site uses both codes for the same
// encoding), 2 base64-decodes with automatic padding correction and then
// percent-decodes. Unknown codes pass the value through unchanged.
//
// DecodeURL never fails: any decode error at any stage returns the input
// unchanged, which callers must recognize as the failure signal.
func DecodeURL(obfuscated string, encryptType int) string {
	switch encryptType {
	case 0, 1:
		// PathUnescape, not QueryUnescape: '+' is a literal character in
		// these payloads, not an encoded space.
		out, err := url.PathUnescape(obfuscated)
		if err != nil {
			return obfuscated
		}
		return out
	case 2:
		padded := obfuscated
		if m := len(padded) % 4; m != 0 {
			padded += strings.Repeat("=", 4-m)
		}
		raw, err := base64.StdEncoding.DecodeString(padded)
		if err != nil {
			return obfuscated
		}
		if !utf8.Valid(raw) {
			return obfuscated
		}
		out, err := url.PathUnescape(string(raw))
		if err != nil {
			return obfuscated
		}
		return out
	default:
		return obfuscated
	}
}
