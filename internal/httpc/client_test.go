package httpc

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{name: "explicit", timeout: 3 * time.Second, want: 3 * time.Second},
		{name: "zero uses default", timeout: 0, want: DefaultTimeout},
		{name: "negative uses default", timeout: -time.Second, want: DefaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.timeout)
			if c.Timeout != tt.want {
				t.Errorf("New(%v).Timeout = %v, want %v", tt.timeout, c.Timeout, tt.want)
			}
			if c.Transport != Transport {
				t.Error("New() should use the shared transport")
			}
		})
	}
}
