package services

import (
	"context"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
)

// AccountService manages the cash, bank and card accounts of a user. At
// most one account per user is the default.
type AccountService struct {
	base
}

func NewAccountService(db *sqlx.DB, m repomanager.RepositoryManager, log logging.Logger) *AccountService {
	return &AccountService{base: newBase(db, m, log, "accounts")}
}

// CreateAccount stores a new account. The first account of a user, or one
// created with IsDefault, becomes the default.
func (s *AccountService) CreateAccount(ctx context.Context, sess session.Session, a models.Account) (*models.Account, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if err := validateAccount(&a); err != nil {
		return nil, err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).GetByID(ctx, sess.UserID)
		if err != nil {
			return err
		}
		if a.Currency, err = resolveCurrency(a.Currency, u.DefaultCurrency); err != nil {
			return err
		}

		repo := s.repomanager.Accounts(tx)
		existing, err := repo.ListByUser(ctx, sess.UserID)
		if err != nil {
			return err
		}
		now := s.stamp()
		if !hasDefault(existing) {
			a.IsDefault = true
		} else if a.IsDefault {
			if err := repo.ClearDefault(ctx, sess.UserID, now); err != nil {
				return err
			}
		}

		a.ID = common.NewID()
		a.UserID = sess.UserID
		a.IsActive = true
		a.CreatedAt = now
		a.UpdatedAt = now
		return repo.Create(ctx, &a)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func hasDefault(as []models.Account) bool {
	for _, a := range as {
		if a.IsDefault {
			return true
		}
	}
	return false
}

func (s *AccountService) GetAccount(ctx context.Context, sess session.Session, id string) (*models.Account, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	return s.repomanager.Accounts(s.db).GetByID(ctx, sess.UserID, id)
}

// ListAccounts returns the default account first, then the rest by name.
func (s *AccountService) ListAccounts(ctx context.Context, sess session.Session) ([]models.Account, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	out, err := s.repomanager.Accounts(s.db).ListByUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// UpdateAccount applies patch. Setting IsDefault moves the default flag to
// this account.
func (s *AccountService) UpdateAccount(ctx context.Context, sess session.Session, id string, patch models.AccountPatch) (*models.Account, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}

	var out *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)
		a, err := repo.GetByID(ctx, sess.UserID, id)
		if err != nil {
			return err
		}
		patch.Apply(a)
		if err := validateAccount(a); err != nil {
			return err
		}
		if patch.Currency != nil {
			u, err := s.repomanager.Users(tx).GetByID(ctx, sess.UserID)
			if err != nil {
				return err
			}
			if a.Currency, err = resolveCurrency(a.Currency, u.DefaultCurrency); err != nil {
				return err
			}
		}
		now := s.stamp()
		if patch.IsDefault != nil && *patch.IsDefault {
			if err := repo.ClearDefault(ctx, sess.UserID, now); err != nil {
				return err
			}
		}
		a.UpdatedAt = now
		if err := repo.Update(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAccount removes an account and detaches the transactions that
// pointed at it.
func (s *AccountService) DeleteAccount(ctx context.Context, sess session.Session, id string) error {
	if err := sess.Require(); err != nil {
		return err
	}
	return deleteAccount(ctx, s.db, s.repomanager, sess.UserID, id)
}

func deleteAccount(ctx context.Context, db *sqlx.DB, m repomanager.RepositoryManager, userID, id string) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := m.Accounts(tx).GetByID(ctx, userID, id); err != nil {
			return err
		}
		if _, err := m.Transactions(tx).ClearAccount(ctx, userID, id); err != nil {
			return err
		}
		return m.Accounts(tx).Delete(ctx, userID, id)
	})
}
