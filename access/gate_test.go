package access_test

import (
	"errors"
	"testing"

	"github.com/xraph/itemledger/access"
)

func TestNewGate(t *testing.T) {
	tests := []struct {
		name       string
		controller access.Identity
		wantErr    error
	}{
		{"valid", "ops@acme", nil},
		{"empty", "", access.ErrInvalidIdentity},
		{"blank", "   ", access.ErrInvalidIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := access.NewGate(tt.controller)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err: got %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && g.Controller() != tt.controller {
				t.Errorf("controller: got %q, want %q", g.Controller(), tt.controller)
			}
		})
	}
}

func TestRequireController(t *testing.T) {
	g, err := access.NewGate("ops@acme")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		caller  access.Identity
		wantErr error
	}{
		{"controller", "ops@acme", nil},
		{"stranger", "mallory", access.ErrUnauthorized},
		{"empty caller", "", access.ErrUnauthorized},
		{"case differs", "OPS@acme", access.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.RequireController(tt.caller); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}
