package extract

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// Key material lifted from the resolver page's player script. The base
// passphrase is tried in several derived forms because the script's own key
// handling changed between deployments.
const (
	aesBasePassphrase = "yhdm"
	aesFixedIV        = "a0bb57a7e0700c92"
)

// videoURLIndicators is the substring set a decrypted candidate must hit to
// count as a plausible media URL.
var videoURLIndicators = []string{
	".m3u8", ".mp4", ".flv", ".avi", ".mkv", "video", "stream", "play",
}

// IsValidVideoURL reports whether s plausibly points at a video resource:
// non-empty, http(s), and containing at least one known media indicator.
func IsValidVideoURL(s string) bool {
	if s == "" {
		return false
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	lower := strings.ToLower(s)
	for _, ind := range videoURLIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// DecryptVideoURL recovers a media URL from the base64 ciphertext passed to
// the resolver page's getVideoInfo() call. It searches a small fixed space:
// four key derivations of the base passphrase, each tried in ECB and then
// CBC with the fixed IV. The first candidate passing IsValidVideoURL wins.
// When no cipher attempt succeeds it falls back to plain encoding chains.
// Returns ok=false when nothing yields a plausible URL; callers treat that
// as "this sub-path failed", never as fatal.
func DecryptVideoURL(cipherB64 string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(cipherB64)
	if err != nil || len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return decryptFallback(cipherB64)
	}

	for _, variant := range keyVariants() {
		key := normalizeKey(variant)

		if out, ok := tryECB(key, raw); ok {
			logrus.Debugf("aes-ecb decrypt succeeded with key variant %q", variant)
			return out, true
		}
		if out, ok := tryCBC(key, raw); ok {
			logrus.Debugf("aes-cbc decrypt succeeded with key variant %q", variant)
			return out, true
		}
	}

	return decryptFallback(cipherB64)
}

// keyVariants derives the candidate keys: the passphrase as-is, null-padded
// to the block size, repeated-and-truncated, and base64-re-encoded.
func keyVariants() []string {
	return []string{
		aesBasePassphrase,
		aesBasePassphrase + strings.Repeat("\x00", aes.BlockSize-len(aesBasePassphrase)),
		strings.Repeat(aesBasePassphrase, 4)[:aes.BlockSize],
		base64.StdEncoding.EncodeToString([]byte(aesBasePassphrase)),
	}
}

// normalizeKey pads or truncates a variant to exactly one AES block.
func normalizeKey(k string) []byte {
	if len(k) < aes.BlockSize {
		k += strings.Repeat("\x00", aes.BlockSize-len(k))
	}
	return []byte(k[:aes.BlockSize])
}

func tryECB(key, raw []byte) (string, bool) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", false
	}

	plain := make([]byte, len(raw))
	for i := 0; i < len(raw); i += aes.BlockSize {
		block.Decrypt(plain[i:i+aes.BlockSize], raw[i:i+aes.BlockSize])
	}

	return finishPlaintext(plain)
}

func tryCBC(key, raw []byte) (string, bool) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", false
	}

	plain := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, []byte(aesFixedIV)).CryptBlocks(plain, raw)

	return finishPlaintext(plain)
}

// finishPlaintext strips PKCS#7 padding (with a lenient last-byte fallback
// when the strict check fails) and validates the result.
func finishPlaintext(plain []byte) (string, bool) {
	unpadded, ok := pkcs7Unpad(plain)
	if !ok {
		// The script's own unpad is sloppy: trust the last byte if it is
		// within one block.
		if n := int(plain[len(plain)-1]); n > 0 && n <= aes.BlockSize && n <= len(plain) {
			unpadded = plain[:len(plain)-n]
		} else {
			unpadded = plain
		}
	}

	if !utf8.Valid(unpadded) {
		return "", false
	}
	out := string(unpadded)
	if !IsValidVideoURL(out) {
		return "", false
	}
	return out, true
}

func pkcs7Unpad(b []byte) ([]byte, bool) {
	if len(b) == 0 {
		return nil, false
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, false
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, false
		}
	}
	return b[:len(b)-n], true
}

// decryptFallback tries the plain encoding chains in order: base64 alone,
// base64 then percent-decode, percent-decode then base64.
func decryptFallback(cipherB64 string) (string, bool) {
	if raw, err := base64.StdEncoding.DecodeString(cipherB64); err == nil && utf8.Valid(raw) {
		if s := string(raw); IsValidVideoURL(s) {
			return s, true
		}
		if unquoted, err := url.PathUnescape(string(raw)); err == nil && IsValidVideoURL(unquoted) {
			return unquoted, true
		}
	}

	if unquoted, err := url.PathUnescape(cipherB64); err == nil {
		if raw, err := base64.StdEncoding.DecodeString(unquoted); err == nil && utf8.Valid(raw) {
			if s := string(raw); IsValidVideoURL(s) {
				return s, true
			}
		}
	}

	return "", false
}
