package auth

import (
	"context"
	"testing"

	"droneDispatch/internal/testutil"
)

const testSecret = "test-secret"

func TestParseFromMD_ValidBearer(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, "alice", "Operator")
	ctx := testutil.CtxWithBearer(context.Background(), tok)
	p, err := ParseFromMD(ctx, testSecret)
	if err != nil {
		t.Fatalf("ParseFromMD: %v", err)
	}
	if p.Name != "alice" || p.Kind != KindOperator {
		t.Fatalf("principal mismatch: %+v", p)
	}
}

func TestParseFromMD_MissingHeader(t *testing.T) {
	if _, err := ParseFromMD(context.Background(), testSecret); err == nil {
		t.Fatalf("expected error for missing metadata")
	}
}

func TestParseBearer_InvalidScheme(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, "bob", KindOperator)
	if _, err := ParseBearer("Basic "+tok, testSecret); err == nil {
		t.Fatalf("expected error for non-Bearer scheme")
	}
	if _, err := ParseBearer(tok, testSecret); err == nil {
		t.Fatalf("expected error for header without scheme")
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, "bob", KindOperator)
	if _, err := parseJWT(tok, "wrong"); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
	if _, err := parseJWT(tok, ""); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestParseJWT_ClaimsValidation(t *testing.T) {
	tok := testutil.GenerateJWTHS256(t, testSecret, "", "")
	if _, err := parseJWT(tok, testSecret); err == nil {
		t.Fatalf("expected invalid claims error")
	}
}
