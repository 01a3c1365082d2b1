package testfixtures

import (
	"testing"
	"time"

	"github.com/example/attendance-portal/internal/identity"
)

// TokenSecret signs every token minted by SignToken.
const TokenSecret = "testfixtures-signing-secret"

// SignToken mints an hour-long bearer token for userID. Admin tokens carry
// the admin role.
func SignToken(tb testing.TB, userID string, admin bool) string {
	tb.Helper()
	role := ""
	if admin {
		role = identity.RoleAdmin
	}
	token, err := identity.NewSigner(TokenSecret, "", nil).Sign(userID, role, time.Hour)
	if err != nil {
		tb.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// NewVerifier returns a verifier accepting SignToken output.
func NewVerifier(tb testing.TB) *identity.Verifier {
	tb.Helper()
	verifier, err := identity.NewVerifier(TokenSecret, "")
	if err != nil {
		tb.Fatalf("failed to build verifier: %v", err)
	}
	return verifier
}
