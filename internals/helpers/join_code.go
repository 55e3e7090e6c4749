package helper

import (
	"crypto/rand"
	"strings"
)

// Alfabet tanpa karakter ambigu (0/O, 1/I/L) biar enak dibacakan di kelas.
const joinCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const JoinCodeLength = 8

// GenerateJoinCode menghasilkan kode join course, mis. "7QK2MPX4".
func GenerateJoinCode() string {
	b := make([]byte, JoinCodeLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand gagal praktis tidak terjadi; fallback deterministik jelek
		return strings.Repeat("X", JoinCodeLength)
	}
	var sb strings.Builder
	sb.Grow(JoinCodeLength)
	for _, v := range b {
		sb.WriteByte(joinCodeAlphabet[int(v)%len(joinCodeAlphabet)])
	}
	return sb.String()
}

// NormalizeJoinCode merapikan input user (spasi, huruf kecil, strip).
func NormalizeJoinCode(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "-", "")
}
