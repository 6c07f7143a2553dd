package user_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rapidaid/rapidaid/internal/api/models"
	"github.com/rapidaid/rapidaid/internal/user"
)

func TestService_GetProfile_MissingReturnsBlank(t *testing.T) {
	service := user.NewService(user.NewInMemoryRepository())

	profile, err := service.GetProfile(context.Background(), "usr_missing")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if profile.UserID != "usr_missing" {
		t.Errorf("expected user ID %q, got %q", "usr_missing", profile.UserID)
	}
	if profile.FullName != "" || profile.PhoneNumber != "" {
		t.Errorf("expected blank profile, got %+v", profile)
	}
}

func TestService_UpsertProfile(t *testing.T) {
	service := user.NewService(user.NewInMemoryRepository())
	ctx := context.Background()

	saved, err := service.UpsertProfile(ctx, "usr_1", &models.ProfileInput{
		FullName:    "Jane Doe",
		PhoneNumber: "555-0100",
	})
	if err != nil {
		t.Fatalf("failed to upsert profile: %v", err)
	}
	if saved.FullName != "Jane Doe" {
		t.Errorf("expected full name %q, got %q", "Jane Doe", saved.FullName)
	}

	got, err := service.GetProfile(ctx, "usr_1")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if got.FullName != "Jane Doe" || got.PhoneNumber != "555-0100" {
		t.Errorf("expected saved values, got %+v", got)
	}
}

func TestService_UpsertProfile_Overwrites(t *testing.T) {
	service := user.NewService(user.NewInMemoryRepository())
	ctx := context.Background()

	if _, err := service.UpsertProfile(ctx, "usr_1", &models.ProfileInput{FullName: "Jane Doe"}); err != nil {
		t.Fatalf("failed to upsert profile: %v", err)
	}
	if _, err := service.UpsertProfile(ctx, "usr_1", &models.ProfileInput{FullName: "Jane Smith", PhoneNumber: "555-0199"}); err != nil {
		t.Fatalf("failed to upsert profile: %v", err)
	}

	got, err := service.GetProfile(ctx, "usr_1")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if got.FullName != "Jane Smith" || got.PhoneNumber != "555-0199" {
		t.Errorf("expected updated values, got %+v", got)
	}
}

func TestService_UpsertProfile_ValidationErrors(t *testing.T) {
	service := user.NewService(user.NewInMemoryRepository())

	_, err := service.UpsertProfile(context.Background(), "usr_1", &models.ProfileInput{
		FullName: strings.Repeat("a", user.MaxFullNameLength+1),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *user.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Errors) != 1 || verr.Errors[0].Field != "fullName" {
		t.Errorf("unexpected field errors: %+v", verr.Errors)
	}
}

func TestService_SeedProfile(t *testing.T) {
	service := user.NewService(user.NewInMemoryRepository())
	ctx := context.Background()

	if err := service.SeedProfile(ctx, "usr_1", "Jane Doe", "555-0100"); err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	got, err := service.GetProfile(ctx, "usr_1")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if got.FullName != "Jane Doe" {
		t.Errorf("expected full name %q, got %q", "Jane Doe", got.FullName)
	}
}

func TestService_SeedProfile_IgnoresBlankInput(t *testing.T) {
	repo := user.NewInMemoryRepository()
	service := user.NewService(repo)

	if err := service.SeedProfile(context.Background(), "usr_1", "", ""); err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
	if _, err := repo.Get(context.Background(), "usr_1"); !errors.Is(err, user.ErrProfileNotFound) {
		t.Errorf("expected no stored profile, got err = %v", err)
	}
}

func TestService_SeedProfile_DoesNotOverwrite(t *testing.T) {
	service := user.NewService(user.NewInMemoryRepository())
	ctx := context.Background()

	if _, err := service.UpsertProfile(ctx, "usr_1", &models.ProfileInput{FullName: "Jane Smith"}); err != nil {
		t.Fatalf("failed to upsert profile: %v", err)
	}
	if err := service.SeedProfile(ctx, "usr_1", "Jane Doe", "555-0100"); err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	got, err := service.GetProfile(ctx, "usr_1")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if got.FullName != "Jane Smith" {
		t.Errorf("expected existing value preserved, got %q", got.FullName)
	}
}
