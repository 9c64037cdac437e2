package gen_test

import (
	"testing"

	"pastforward/internal/gen"
)

func TestKeyAuthorizerRequiresKeyAndConfirmation(t *testing.T) {
	auth := gen.NewKeyAuthorizer("user-key")
	if auth.Confirmed() {
		t.Fatal("fresh authorizer should not be confirmed")
	}
	auth.Confirm()
	if !auth.Confirmed() {
		t.Fatal("expected confirmation to stick")
	}
	auth.Reset()
	if auth.Confirmed() {
		t.Fatal("Reset should clear confirmation")
	}
}

func TestKeyAuthorizerWithoutKey(t *testing.T) {
	auth := gen.NewKeyAuthorizer("")
	auth.Confirm()
	if auth.Confirmed() {
		t.Fatal("confirmation without a key should have no effect")
	}
}
