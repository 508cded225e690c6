package core_test

import (
	"context"
	"errors"
	"testing"

	"quotepro/internal/core"

	"github.com/shopspring/decimal"
)

func TestAccountService_RegisterSeedsDefaults(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	accounts := core.NewAccountService(pool)
	settings := core.NewSettingsService(pool)
	ctx := context.Background()

	acct, err := accounts.Register(ctx, "new@business.example", "New Business", "s3cret-pass")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if acct.Email != "new@business.example" {
		t.Errorf("email: got %s", acct.Email)
	}
	if acct.PasswordHash == "s3cret-pass" || acct.PasswordHash == "" {
		t.Error("password stored in the clear or not at all")
	}

	// Registration seeds numbering and tax defaults in the same transaction.
	s, err := settings.GetSettings(ctx, acct.ID)
	if err != nil {
		t.Fatalf("GetSettings for new account failed: %v", err)
	}
	if s.QuotePrefix != "QUO-" || s.NextQuoteNumber != 1 {
		t.Errorf("seeded settings: %+v", s)
	}
	if !s.TaxRate.Equal(decimal.NewFromFloat(0.15)) {
		t.Errorf("seeded tax rate: got %s", s.TaxRate)
	}

	p, err := settings.GetCompanyProfile(ctx, acct.ID)
	if err != nil {
		t.Fatalf("GetCompanyProfile for new account failed: %v", err)
	}
	if p.Name != "New Business" || p.Currency != "ZAR" {
		t.Errorf("seeded profile: %+v", p)
	}
}

func TestAccountService_RegisterValidation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	accounts := core.NewAccountService(pool)
	ctx := context.Background()

	if _, err := accounts.Register(ctx, "not-an-email", "X", "s3cret-pass"); !errors.Is(err, core.ErrValidation) {
		t.Errorf("bad email: expected ErrValidation, got %v", err)
	}
	if _, err := accounts.Register(ctx, "a@b.example", "X", "short"); !errors.Is(err, core.ErrValidation) {
		t.Errorf("short password: expected ErrValidation, got %v", err)
	}

	// Duplicate email.
	if _, err := accounts.Register(ctx, "dup@b.example", "X", "s3cret-pass"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := accounts.Register(ctx, "dup@b.example", "Y", "s3cret-pass"); !errors.Is(err, core.ErrValidation) {
		t.Errorf("duplicate email: expected ErrValidation, got %v", err)
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	accounts := core.NewAccountService(pool)
	ctx := context.Background()

	reg, err := accounts.Register(ctx, "login@b.example", "Login Co", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	acct, err := accounts.Authenticate(ctx, "login@b.example", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if acct.ID != reg.ID {
		t.Errorf("authenticated wrong account: %d vs %d", acct.ID, reg.ID)
	}

	if _, err := accounts.Authenticate(ctx, "login@b.example", "wrong-pass"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("wrong password: expected ErrNotFound, got %v", err)
	}
	if _, err := accounts.Authenticate(ctx, "nobody@b.example", "correct-horse"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("unknown email: expected ErrNotFound, got %v", err)
	}
}
