package service

import (
	"context"
	"fmt"

	"lingoclass/internal/repository"
)

// WalletService is the ledger over the per-student prepaid balance. Both
// operations are single conditional writes in the repository, so two racing
// purchases can never overdraw the wallet or lose an update.
type WalletService struct {
	profileRepo repository.ProfileRepo
}

// NewWalletService creates a new wallet service
func NewWalletService(profileRepo repository.ProfileRepo) *WalletService {
	return &WalletService{profileRepo: profileRepo}
}

// Balance returns the student's current balance.
func (s *WalletService) Balance(ctx context.Context, studentID string) (float64, error) {
	profile, err := s.profileRepo.GetByID(ctx, studentID)
	if err != nil {
		return 0, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return 0, ErrProfileNotFound
	}
	return profile.WalletBalance, nil
}

// Credit adds amount to the balance.
func (s *WalletService) Credit(ctx context.Context, studentID string, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive")
	}
	if err := s.profileRepo.CreditWallet(ctx, studentID, amount); err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	return nil
}

// Debit subtracts amount from the balance. A debit that would drive the
// balance negative is rejected and changes nothing.
func (s *WalletService) Debit(ctx context.Context, studentID string, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive")
	}
	applied, err := s.profileRepo.DebitWallet(ctx, studentID, amount)
	if err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}
	if !applied {
		return ErrInsufficientFunds
	}
	return nil
}
