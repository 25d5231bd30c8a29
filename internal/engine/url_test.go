package engine

import (
	"strings"
	"testing"
)

func TestValidateFetchURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"plain https", "https://example.com/article", ""},
		{"plain http", "http://example.com/article", ""},
		{"ftp scheme", "ftp://example.com/file", "scheme"},
		{"file scheme", "file:///etc/passwd", "scheme"},
		{"no host", "https://", "no host"},
		{"localhost", "http://localhost:8080/admin", "private"},
		{"loopback", "http://127.0.0.1/", "private"},
		{"rfc1918 ten", "http://10.0.0.5/", "private"},
		{"rfc1918 one-seventy-two", "http://172.16.0.1/", "private"},
		{"rfc1918 one-ninety-two", "http://192.168.1.1/", "private"},
		{"youtube watch", "https://www.youtube.com/watch?v=abc", "video"},
		{"youtu.be", "https://youtu.be/abc", "video"},
		{"mobile youtube", "https://m.youtube.com/watch?v=abc", "video"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFetchURL(tt.url)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
