package auth

import "golang.org/x/crypto/argon2"

func deriveForTest(password string, salt []byte, time uint32, threads uint8, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password), salt, time, argonMemory, threads, keyLen)
}
