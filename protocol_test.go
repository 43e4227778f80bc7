package pathkit

import (
	"errors"
	"testing"
)

func TestDetectProtocol(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"s3 uri", "s3://bucket/key", "s3"},
		{"file uri", "file:///tmp/x", "file"},
		{"single slash", "file:/tmp/x", "file"},
		{"https", "https://host/a", "https"},
		{"uppercase scheme folded", "S3://bucket/key", "s3"},
		{"plain path", "/tmp/x", ""},
		{"relative path", "a/b", ""},
		{"windows drive is not a scheme", `C:\Users\x`, ""},
		{"data uri", "data:text/plain;base64,aGk=", "data"},
		{"no slash after colon", "s3:bucket", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectProtocol(tt.address); got != tt.want {
				t.Errorf("DetectProtocol(%q) = %q, want %q", tt.address, got, tt.want)
			}
		})
	}
}

func TestResolveProtocol(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		explicit string
		want     string
		wantErr  error
	}{
		{"explicit only", "/a/b", "file", "file", nil},
		{"inferred only", "s3://b/k", "", "s3", nil},
		{"explicit matches inferred", "s3://b/k", "s3", "s3", nil},
		{"alias family resolves to encoded", "https://h/a", "http", "https", nil},
		{"conflict surfaces", "gs://b/k", "s3", "", ErrProtocolMismatch},
		{"neither", "a/b", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveProtocol(tt.address, tt.explicit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveProtocol(%q, %q) error = %v, want %v", tt.address, tt.explicit, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveProtocol(%q, %q) error: %v", tt.address, tt.explicit, err)
			}
			if got != tt.want {
				t.Errorf("ResolveProtocol(%q, %q) = %q, want %q", tt.address, tt.explicit, got, tt.want)
			}
		})
	}
}

func TestStripProtocol(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"double slash", "s3://bucket/key", "bucket/key"},
		{"triple slash", "memory:///data/x", "/data/x"},
		{"single slash rooted", "file:/tmp/x", "/tmp/x"},
		{"no scheme untouched", "/tmp/x", "/tmp/x"},
		{"windows drive untouched", `C:\x`, `C:\x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripProtocol(tt.address); got != tt.want {
				t.Errorf("StripProtocol(%q) = %q, want %q", tt.address, got, tt.want)
			}
		})
	}
}
