package util

import (
	"strings"
	"testing"
)

func TestRedact(t *testing.T) {
	in := `{"email":"ana@example.com","password":"hunter2","refreshToken":"abc.def"} Authorization: Bearer eyJhbGciOi.x-y`
	out := Redact(in)
	for _, leak := range []string{"ana@example.com", "hunter2", "abc.def", "eyJhbGciOi"} {
		if strings.Contains(out, leak) {
			t.Fatalf("%q leaked in %s", leak, out)
		}
	}
	if !strings.Contains(out, `"password":"[redacted]"`) {
		t.Fatalf("password member not masked: %s", out)
	}
}
