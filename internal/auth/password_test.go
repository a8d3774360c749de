package auth

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("MySecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("hash should start with $argon2id$v=19$, got: %s", hash)
	}

	hash2, err := HashPassword("MySecurePassword123")
	if err != nil {
		t.Fatalf("HashPassword() failed on second call: %v", err)
	}
	if hash == hash2 {
		t.Error("two hashes of the same password should differ by salt")
	}
}

func TestVerifyPassword(t *testing.T) {
	password := "MySecurePassword123"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	badSalt := "$argon2id$v=19$m=65536,t=1,p=4$!!!$" + base64.RawStdEncoding.EncodeToString([]byte("x"))

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
		wantErr  bool
	}{
		{"correct password", password, hash, true, false},
		{"wrong password", "WrongPassword456", hash, false, false},
		{"invalid format", password, "invalid", false, true},
		{"wrong algorithm", password, "$bcrypt$v=1$m=65536,t=1,p=4$salt$hash", false, true},
		{"bad parameters", password, "$argon2id$v=19$garbage$salt$hash", false, true},
		{"bad salt encoding", password, badSalt, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyPassword(tt.password, tt.hash)
			if (err != nil) != tt.wantErr {
				t.Errorf("VerifyPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}
