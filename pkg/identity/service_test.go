package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/carelens-ai/platform/pkg/common/models"
)

func TestSignupRejectsPasswordMismatch(t *testing.T) {
	service := NewService(nil)

	_, err := service.Signup(context.Background(), models.SignupRequest{
		Email:           "clinician@example.com",
		Password:        "secret-one",
		ConfirmPassword: "secret-two",
	})
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestSignupRequiresEmailAndPassword(t *testing.T) {
	service := NewService(nil)

	if _, err := service.Signup(context.Background(), models.SignupRequest{Email: "clinician@example.com"}); err == nil {
		t.Fatal("expected error for missing password")
	}
	if _, err := service.Signup(context.Background(), models.SignupRequest{Password: "secret"}); err == nil {
		t.Fatal("expected error for missing email")
	}
}
