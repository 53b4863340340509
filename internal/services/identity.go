package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/budgetkeeper/internal/catalog"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/cryptox"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
)

// IdentityService manages users, their settings and the login session.
type IdentityService struct {
	base
	sessions *session.Store
}

func NewIdentityService(db *sqlx.DB, m repomanager.RepositoryManager, log logging.Logger) *IdentityService {
	return &IdentityService{
		base:     newBase(db, m, log, "identity"),
		sessions: session.NewStore(m.Metadata(db)),
	}
}

// Register creates a user together with its default cash account. Both
// rows are written in one transaction. A taken username or email yields
// common.ErrorAlreadyExists.
func (s *IdentityService) Register(ctx context.Context, in models.NewUser) (*models.User, error) {
	if err := requireText("username", in.Username); err != nil {
		return nil, err
	}
	if err := requireText("email", in.Email); err != nil {
		return nil, err
	}
	currency, err := resolveCurrency(in.DefaultCurrency, "")
	if err != nil {
		return nil, err
	}
	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.stamp()
	u := &models.User{
		ID:              common.NewID(),
		Username:        strings.TrimSpace(in.Username),
		Email:           strings.TrimSpace(in.Email),
		PasswordHash:    hash,
		DisplayName:     in.DisplayName,
		DefaultCurrency: currency,
		Settings:        models.JSONMap{}.WithInclusion(catalog.DefaultInclusion()),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).Create(ctx, u); err != nil {
			return err
		}
		return s.repomanager.Accounts(tx).Create(ctx, &models.Account{
			ID:        common.NewID(),
			UserID:    u.ID,
			Name:      "Cash",
			Type:      "cash",
			Balance:   decimal.Zero,
			Currency:  currency,
			IsDefault: true,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error registering user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login checks the password of the user identified by username or email
// and persists the session. Unknown users and wrong passwords both yield
// common.ErrorUnauthorized.
func (s *IdentityService) Login(ctx context.Context, login string, password []byte) (session.Session, error) {
	repo := s.repomanager.Users(s.db)

	u, err := repo.GetByUsername(ctx, login)
	if errors.Is(err, common.ErrorNotFound) {
		u, err = repo.GetByEmail(ctx, login)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return session.Anonymous, common.ErrorUnauthorized
		}
		return session.Anonymous, err
	}

	ok, err := cryptox.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		s.log.Error(ctx, "stored password hash is unreadable", "user_id", u.ID, "error", err)
		return session.Anonymous, common.ErrorUnauthorized
	}
	if !ok {
		return session.Anonymous, common.ErrorUnauthorized
	}

	sess := session.Session{UserID: u.ID}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return session.Anonymous, err
	}
	s.log.Info(ctx, "user logged in", "user_id", u.ID)
	return sess, nil
}

// Logout clears the persisted session.
func (s *IdentityService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// Current returns the persisted session. A slot pointing at a user that no
// longer exists is cleared and reported as anonymous.
func (s *IdentityService) Current(ctx context.Context) (session.Session, error) {
	sess, err := s.sessions.Load(ctx)
	if err != nil || sess.Require() != nil {
		return sess, err
	}
	if _, err := s.repomanager.Users(s.db).GetByID(ctx, sess.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.log.Warn(ctx, "session points at a missing user", "user_id", sess.UserID)
			return session.Anonymous, s.sessions.Clear(ctx)
		}
		return session.Anonymous, err
	}
	return sess, nil
}

func (s *IdentityService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *IdentityService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByEmail(ctx, email)
}

// GetUsers returns every user, oldest first.
func (s *IdentityService) GetUsers(ctx context.Context) ([]models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// UpdateUser applies the non-nil fields of patch and refreshes UpdatedAt.
func (s *IdentityService) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if patch.Username != nil {
		if err := requireText("username", *patch.Username); err != nil {
			return nil, err
		}
	}
	if patch.Email != nil {
		if err := requireText("email", *patch.Email); err != nil {
			return nil, err
		}
	}
	if patch.DefaultCurrency != nil {
		code, err := catalog.NormalizeCurrency(*patch.DefaultCurrency)
		if err != nil {
			return nil, err
		}
		patch.DefaultCurrency = &code
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(u)
	u.UpdatedAt = s.stamp()
	if err := repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// SetAssetInclusion toggles whether assets of assetType count towards
// statistics.
func (s *IdentityService) SetAssetInclusion(ctx context.Context, sess session.Session, assetType string, included bool) (*models.User, error) {
	if err := catalog.ValidateAssetType(assetType); err != nil {
		return nil, err
	}
	return s.updateInclusion(ctx, sess, func(in *models.InclusionSettings) {
		in.SetAsset(assetType, included)
	})
}

// SetCategoryInclusion toggles whether transactions of the given type and
// category count towards statistics.
func (s *IdentityService) SetCategoryInclusion(ctx context.Context, sess session.Session, t models.TransactionType, category string, included bool) (*models.User, error) {
	if err := catalog.ValidateCategory(t, category); err != nil {
		return nil, err
	}
	return s.updateInclusion(ctx, sess, func(in *models.InclusionSettings) {
		in.SetTransaction(t, category, included)
	})
}

func (s *IdentityService) updateInclusion(ctx context.Context, sess session.Session, fn func(*models.InclusionSettings)) (*models.User, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	u, err := s.GetUser(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	in := u.Settings.Inclusion()
	fn(&in)
	return s.UpdateUser(ctx, u.ID, models.UserPatch{Settings: u.Settings.WithInclusion(in)})
}

// ResetAllPasswords sets newPassword for every user. Each user gets a
// fresh salt and is updated on its own; failures are collected and the
// remaining users are still processed.
func (s *IdentityService) ResetAllPasswords(ctx context.Context, newPassword []byte) (*models.ResetResult, error) {
	if len(newPassword) == 0 {
		return nil, invalid("password must not be empty")
	}

	repo := s.repomanager.Users(s.db)
	users, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}

	res := &models.ResetResult{Total: len(users), Failed: []models.ResetFailure{}}
	for _, u := range users {
		err := s.resetPassword(ctx, u.ID, newPassword)
		if err != nil {
			s.log.Warn(ctx, "password reset failed", "user_id", u.ID, "error", err)
			res.Failed = append(res.Failed, models.ResetFailure{UserID: u.ID, Error: err.Error()})
			continue
		}
		res.Updated++
	}

	s.log.Info(ctx, "passwords reset", "total", res.Total, "updated", res.Updated, "failed", len(res.Failed))
	return res, nil
}

// hashPassword is a seam for tests.
var hashPassword = cryptox.HashPassword

func (s *IdentityService) resetPassword(ctx context.Context, id string, password []byte) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	return s.repomanager.Users(s.db).UpdatePassword(ctx, id, hash, s.stamp())
}
