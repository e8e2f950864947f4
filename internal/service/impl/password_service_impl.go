package impl

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

type argon2Params struct {
	time    uint32
	memory  uint32 // KiB
	threads uint8
	keyLen  uint32
	saltLen uint32
}

// PasswordServiceImpl produces self-describing argon2id digests of the form
// argon2id$t=3,m=65536,p=1$<salt b64>$<hash b64>, so verification always uses
// the cost the digest was created with.
type PasswordServiceImpl struct {
	cur argon2Params
}

func NewPasswordServiceArgon2id() *PasswordServiceImpl {
	return &PasswordServiceImpl{
		cur: argon2Params{
			time:    3,
			memory:  64 * 1024, // 64 MiB
			threads: 1,
			keyLen:  32,
			saltLen: 16,
		},
	}
}

func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, p.cur.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, p.cur.time, p.cur.memory, p.cur.threads, p.cur.keyLen)

	return fmt.Sprintf("argon2id$t=%d,m=%d,p=%d$%s$%s",
		p.cur.time, p.cur.memory, p.cur.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func (p *PasswordServiceImpl) Verify(password, digest string) bool {
	parts := strings.Split(digest, "$")
	if len(parts) != 4 || parts[0] != "argon2id" {
		return false
	}

	var t, m uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[1], "t=%d,m=%d,p=%d", &t, &m, &threads); err != nil {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}

	calculated := argon2.IDKey([]byte(password), salt, t, m, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(calculated, expected) == 1
}
