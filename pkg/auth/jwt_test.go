package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/carelens-ai/platform/pkg/common/models"
	"github.com/google/uuid"
)

func testManager(t *testing.T) *JWTManager {
	t.Helper()
	manager, err := NewJWTManager("unit-test-signing-key", "carelens", "carelens-web", time.Hour)
	if err != nil {
		t.Fatalf("failed to build manager: %v", err)
	}
	return manager
}

func TestIssueAndValidateToken(t *testing.T) {
	manager := testManager(t)
	user := models.User{
		ID:      uuid.New(),
		Email:   "clinician@example.com",
		IsAdmin: true,
	}

	token, err := manager.IssueToken(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if len(strings.Split(token, ".")) != 3 {
		t.Fatalf("expected 3 token segments, got %q", token)
	}

	claims, err := manager.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("failed to validate token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID)
	}
	if claims.Email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, claims.Email)
	}
	if !claims.Admin {
		t.Fatal("expected admin claim to be set")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	manager := testManager(t)
	manager.nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := manager.IssueToken(models.User{ID: uuid.New()})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	manager.nowFunc = time.Now
	if _, err := manager.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestValidateTokenRejectsTamperedSignature(t *testing.T) {
	manager := testManager(t)
	token, err := manager.IssueToken(models.User{ID: uuid.New()})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	parts := strings.Split(token, ".")
	tampered := strings.Join([]string{parts[0], parts[1], "forged"}, ".")
	if _, err := manager.ValidateToken(context.Background(), tampered); err == nil {
		t.Fatal("expected error for tampered signature")
	}
}

func TestValidateTokenRejectsWrongIssuer(t *testing.T) {
	issued := testManager(t)
	token, err := issued.IssueToken(models.User{ID: uuid.New()})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	other, err := NewJWTManager("unit-test-signing-key", "someone-else", "carelens-web", time.Hour)
	if err != nil {
		t.Fatalf("failed to build manager: %v", err)
	}
	if _, err := other.ValidateToken(context.Background(), token); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestNewJWTManagerRejectsShortSecret(t *testing.T) {
	if _, err := NewJWTManager("short", "carelens", "carelens-web", time.Hour); err == nil {
		t.Fatal("expected error for short secret")
	}
}
