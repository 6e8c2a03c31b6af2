package secrets

import "testing"

func TestEncryptDecryptRoundtrip(t *testing.T) {
	c, err := NewCipher("test-passphrase")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	sealed, err := c.Encrypt("sk-live-abc123")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if sealed == "sk-live-abc123" {
		t.Fatal("ciphertext must differ from plaintext")
	}
	got, err := c.Decrypt(sealed)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if got != "sk-live-abc123" {
		t.Fatalf("roundtrip mismatch: %q", got)
	}
}

func TestEmptyStringStaysEmpty(t *testing.T) {
	c, err := NewCipher("test-passphrase")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	sealed, err := c.Encrypt("")
	if err != nil {
		t.Fatalf("encrypt empty: %v", err)
	}
	if sealed != "" {
		t.Fatalf("empty plaintext should stay empty, got %q", sealed)
	}
	got, err := c.Decrypt("")
	if err != nil || got != "" {
		t.Fatalf("decrypt empty: got %q, %v", got, err)
	}
}

func TestDecryptRejectsTamperedAndForeignCiphertext(t *testing.T) {
	c1, err := NewCipher("passphrase-one")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	c2, err := NewCipher("passphrase-two")
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	sealed, err := c1.Encrypt("secret-value")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := c2.Decrypt(sealed); err != ErrInvalidCiphertext {
		t.Fatalf("foreign key decrypt: expected ErrInvalidCiphertext, got %v", err)
	}
	if _, err := c1.Decrypt("not base64!!"); err != ErrInvalidCiphertext {
		t.Fatalf("malformed input: expected ErrInvalidCiphertext, got %v", err)
	}
	if _, err := c1.Decrypt("c2hvcnQ="); err != ErrInvalidCiphertext {
		t.Fatalf("truncated input: expected ErrInvalidCiphertext, got %v", err)
	}
}

func TestNewCipherRequiresPassphrase(t *testing.T) {
	if _, err := NewCipher(""); err == nil {
		t.Fatal("expected error for empty passphrase")
	}
}
