package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/auth"
	"github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "list", "--catalog", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, id := range []string{"oak-framed-garage", "oak-gazebo", "oak-porch", "oak-beam", "oak-flooring"} {
		if !strings.Contains(out, id) {
			t.Fatalf("expected %s in output:\n%s", id, out)
		}
	}

	out, err = run(t, "list", "--catalog", "", "--category", "beam")
	if err != nil {
		t.Fatalf("list beam: %v", err)
	}
	if strings.Contains(out, "oak-gazebo") || !strings.Contains(out, "oak-beam") {
		t.Fatalf("category filter not applied:\n%s", out)
	}
}

func TestQuoteCommand(t *testing.T) {
	out, err := run(t, "quote", "--catalog", "", "oak-gazebo", "sizeType=4x4")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !strings.Contains(out, "unit price: 3500.00") {
		t.Fatalf("unexpected quote output:\n%s", out)
	}
	if !strings.Contains(out, "item key:") {
		t.Fatalf("expected item key in output:\n%s", out)
	}
}

func TestQuoteCommandRejectsBadSelection(t *testing.T) {
	if _, err := run(t, "quote", "--catalog", "", "oak-gazebo", "sizeType"); err == nil {
		t.Fatal("expected malformed selection error")
	}
	if _, err := run(t, "quote", "--catalog", "", "oak-gazebo", "sizeType=9x9"); err == nil {
		t.Fatal("expected invalid value error")
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("products: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := run(t, "validate", bad); err == nil {
		t.Fatal("expected validation failure for empty catalog")
	}
}

func TestKeyDecodeRoundTrip(t *testing.T) {
	out, err := run(t, "key", "decode", "b2FrLWdhemVib3xyb29mU3R5bGU6cHlyYW1pZDtzaXplVHlwZTo0eDQ")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, want := range []string{"product: oak-gazebo", "roofStyle = pyramid", "sizeType = 4x4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTokenCommand(t *testing.T) {
	accountID := "3f2b8f8e-1c1a-4d0e-9a55-8c1f6f0f2a11"
	out, err := run(t, "token", "--account", accountID, "--secret", "s3cret", "--issuer", "oak-auth", "--ttl", "10m")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	claims, err := auth.ParseAccessToken(config.JWTConfig{Secret: "s3cret", Issuer: "oak-auth"}, strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.AccountID.String() != accountID {
		t.Fatalf("unexpected account %s", claims.AccountID)
	}
}
