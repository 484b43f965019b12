package config_test

import (
	"testing"

	"github.com/opol-agri/rsbsa-lambda/internal/config"
)

const testKey = "01234567890123456789012345678901"

func TestNewFieldCipher(t *testing.T) {
	t.Run("ShortKey", func(t *testing.T) {
		if _, err := config.NewFieldCipher("chave_curta"); err == nil {
			t.Error("expected an error for a short key")
		}
	})

	t.Run("ValidKey", func(t *testing.T) {
		if _, err := config.NewFieldCipher(testKey); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestEncryptDecrypt(t *testing.T) {
	c, err := config.NewFieldCipher(testKey)
	if err != nil {
		t.Fatalf("NewFieldCipher: %v", err)
	}

	t.Run("GovernmentID", func(t *testing.T) {
		plaintext := "PHILSYS-1234-5678-9012"

		ciphertext, err := c.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}

		decrypted, err := c.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if decrypted != plaintext {
			t.Errorf("decrypted text %q does not match %q", decrypted, plaintext)
		}

		ciphertext2, _ := c.Encrypt(plaintext)
		if ciphertext == ciphertext2 {
			t.Error("two encryptions of the same value must differ (random nonce)")
		}
	})

	t.Run("EmptyText", func(t *testing.T) {
		ciphertext, err := c.Encrypt("")
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		decrypted, err := c.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if decrypted != "" {
			t.Errorf("expected empty text, got %q", decrypted)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		if _, err := c.Decrypt("not-base64!!"); err != config.ErrInvalidCiphertext {
			t.Errorf("expected ErrInvalidCiphertext, got %v", err)
		}
		if _, err := c.Decrypt("AAAA"); err != config.ErrInvalidCiphertext {
			t.Errorf("expected ErrInvalidCiphertext for short input, got %v", err)
		}
	})
}
