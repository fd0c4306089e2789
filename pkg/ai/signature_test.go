package ai

import "testing"

func TestVerifyHMAC(t *testing.T) {
	secret := "webhook-secret"
	payload := []byte(`{"transcript_id":"abc","status":"completed"}`)

	sig := SignPayload(secret, payload)
	if sig == "" {
		t.Fatal("expected non-empty signature")
	}

	if !VerifyHMAC(secret, payload, sig) {
		t.Fatal("signature should verify against the same secret and payload")
	}
	if VerifyHMAC("other-secret", payload, sig) {
		t.Fatal("signature should not verify with a different secret")
	}
	if VerifyHMAC(secret, []byte(`{"tampered":true}`), sig) {
		t.Fatal("signature should not verify for a tampered payload")
	}
	if VerifyHMAC(secret, payload, "") {
		t.Fatal("empty signature should not verify")
	}
}
