package auth

import (
	"context"
	"testing"
)

func TestActor(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"no principal", context.Background(), "anonymous"},
		{"username", WithPrincipal(context.Background(), Principal{Subject: "u-1", Username: "alice"}), "alice"},
		{"subject only", WithPrincipal(context.Background(), Principal{Subject: "u-1"}), "u-1"},
		{"empty principal", WithPrincipal(context.Background(), Principal{}), "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Actor(tt.ctx); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
