package extract

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"net/url"
	"testing"
)

func TestIsValidVideoURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://cdn.example.com/a/b/index.m3u8", true},
		{"http://x.com/stream?id=1", true},
		{"https://host.net/watch/PLAY.MP4", true},
		{"", false},
		{"ftp://cdn.example.com/index.m3u8", false},
		{"cdn.example.com/index.m3u8", false},
		{"https://example.com/page.html", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsValidVideoURL(tt.in); got != tt.want {
				t.Errorf("IsValidVideoURL(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func pkcs7Pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	for i := 0; i < n; i++ {
		b = append(b, byte(n))
	}
	return b
}

func encryptECB(t *testing.T, key []byte, plain string) string {
	t.Helper()
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("creating cipher: %v", err)
	}
	padded := pkcs7Pad([]byte(plain))
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		block.Encrypt(out[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}
	return base64.StdEncoding.EncodeToString(out)
}

func encryptCBC(t *testing.T, key []byte, iv string, plain string) string {
	t.Helper()
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("creating cipher: %v", err)
	}
	padded := pkcs7Pad([]byte(plain))
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, []byte(iv)).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out)
}

func TestDecryptVideoURLECB(t *testing.T) {
	plain := "https://cdn.example.com/hls/index.m3u8"
	key := normalizeKey(aesBasePassphrase) // null-padded variant

	got, ok := DecryptVideoURL(encryptECB(t, key, plain))
	if !ok {
		t.Fatal("DecryptVideoURL() failed on ECB ciphertext")
	}
	if got != plain {
		t.Errorf("DecryptVideoURL() = %q, want %q", got, plain)
	}
}

func TestDecryptVideoURLCBC(t *testing.T) {
	plain := "http://media.example.net/stream/ep01.mp4"
	key := normalizeKey("yhdmyhdmyhdmyhdm") // repeated-and-truncated variant

	got, ok := DecryptVideoURL(encryptCBC(t, key, aesFixedIV, plain))
	if !ok {
		t.Fatal("DecryptVideoURL() failed on CBC ciphertext")
	}
	if got != plain {
		t.Errorf("DecryptVideoURL() = %q, want %q", got, plain)
	}
}

func TestDecryptVideoURLFallbacks(t *testing.T) {
	plain := "https://cdn.example.com/video/index.m3u8"

	t.Run("plain base64", func(t *testing.T) {
		got, ok := DecryptVideoURL(base64.StdEncoding.EncodeToString([]byte(plain)))
		if !ok || got != plain {
			t.Errorf("got (%q, %v), want (%q, true)", got, ok, plain)
		}
	})

	t.Run("base64 of percent-encoded", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte(url.QueryEscape(plain)))
		got, ok := DecryptVideoURL(encoded)
		if !ok || got != plain {
			t.Errorf("got (%q, %v), want (%q, true)", got, ok, plain)
		}
	})

	t.Run("percent-encoded base64", func(t *testing.T) {
		encoded := url.QueryEscape(base64.StdEncoding.EncodeToString([]byte(plain)))
		got, ok := DecryptVideoURL(encoded)
		if !ok || got != plain {
			t.Errorf("got (%q, %v), want (%q, true)", got, ok, plain)
		}
	})

	t.Run("garbage yields not-ok", func(t *testing.T) {
		if got, ok := DecryptVideoURL("definitely not media"); ok {
			t.Errorf("expected failure, got %q", got)
		}
	})
}
