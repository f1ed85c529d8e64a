package password

import "testing"

func TestBcrypt_HashAndVerify(t *testing.T) {
	t.Parallel()

	h, err := NewBcrypt(4) // min cost keeps the test fast
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	encoded, err := h.Hash("s3cret-pa55word")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if encoded == "" || encoded == "s3cret-pa55word" {
		t.Fatalf("unexpected encoded hash: %q", encoded)
	}

	if !h.Verify("s3cret-pa55word", encoded) {
		t.Error("Verify rejected the correct password")
	}
	if h.Verify("wrong-password", encoded) {
		t.Error("Verify accepted a wrong password")
	}
}

func TestBcrypt_HashesDiffer(t *testing.T) {
	t.Parallel()

	h, err := NewBcrypt(4)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}

	a, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Error("two hashes of the same password must not be equal (random salt)")
	}
}

func TestNewBcrypt_InvalidCost(t *testing.T) {
	t.Parallel()

	if _, err := NewBcrypt(99); err == nil {
		t.Error("expected error for out-of-range cost")
	}
}

func TestBcrypt_VerifyGarbageHash(t *testing.T) {
	t.Parallel()

	h, err := NewBcrypt(0)
	if err != nil {
		t.Fatalf("NewBcrypt error: %v", err)
	}
	if h.Verify("anything", "not-a-bcrypt-hash") {
		t.Error("Verify accepted a malformed stored hash")
	}
}
