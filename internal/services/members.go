package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
)

// MemberService manages household members (AccountUser records).
type MemberService struct {
	base
	policy models.MemberDeletePolicy
}

// NewMemberService builds a MemberService applying policy on delete. An
// invalid policy falls back to MemberDeleteNullify.
func NewMemberService(db *sqlx.DB, m repomanager.RepositoryManager, log logging.Logger, policy models.MemberDeletePolicy) *MemberService {
	if !policy.Valid() {
		policy = models.MemberDeleteNullify
	}
	return &MemberService{base: newBase(db, m, log, "members"), policy: policy}
}

func (s *MemberService) Policy() models.MemberDeletePolicy { return s.policy }

func validateMember(m *models.AccountUser) error {
	if err := requireText("name", m.Name); err != nil {
		return err
	}
	return validateDate("birth date", m.BirthDate, false)
}

func (s *MemberService) CreateMember(ctx context.Context, sess session.Session, m models.AccountUser) (*models.AccountUser, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if err := validateMember(&m); err != nil {
		return nil, err
	}
	now := s.stamp()
	m.ID = common.NewID()
	m.OwnerID = sess.UserID
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := s.repomanager.Members(s.db).Create(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MemberService) GetMember(ctx context.Context, sess session.Session, id string) (*models.AccountUser, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	return s.repomanager.Members(s.db).GetByID(ctx, sess.UserID, id)
}

func (s *MemberService) ListMembers(ctx context.Context, sess session.Session) ([]models.AccountUser, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	return s.repomanager.Members(s.db).ListByOwner(ctx, sess.UserID)
}

func (s *MemberService) UpdateMember(ctx context.Context, sess session.Session, id string, patch models.AccountUserPatch) (*models.AccountUser, error) {
	if err := sess.Require(); err != nil {
		return nil, err
	}
	repo := s.repomanager.Members(s.db)
	m, err := repo.GetByID(ctx, sess.UserID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(m)
	if err := validateMember(m); err != nil {
		return nil, err
	}
	m.UpdatedAt = s.stamp()
	if err := repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMember removes a member and handles its transactions and assets
// according to the configured policy, all in one transaction:
//
//   - cascade deletes the transactions and deactivates the assets;
//   - nullify clears their member reference;
//   - reject fails with common.ErrorReferenced while any remain.
func (s *MemberService) DeleteMember(ctx context.Context, sess session.Session, id string) error {
	if err := sess.Require(); err != nil {
		return err
	}
	userID := sess.UserID

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Members(tx).GetByID(ctx, userID, id); err != nil {
			return err
		}
		txs := s.repomanager.Transactions(tx)
		assets := s.repomanager.Assets(tx)

		switch s.policy {
		case models.MemberDeleteReject:
			nt, err := txs.CountByMember(ctx, userID, id)
			if err != nil {
				return err
			}
			na, err := assets.CountByMember(ctx, userID, id)
			if err != nil {
				return err
			}
			if nt+na > 0 {
				return fmt.Errorf("%w: member has %d transactions and %d assets", common.ErrorReferenced, nt, na)
			}
		case models.MemberDeleteCascade:
			if _, err := txs.DeleteByMember(ctx, userID, id); err != nil {
				return err
			}
			if _, err := assets.DeactivateByMember(ctx, userID, id, s.stamp()); err != nil {
				return err
			}
		default:
			if _, err := txs.ClearMember(ctx, userID, id); err != nil {
				return err
			}
			if _, err := assets.ClearMember(ctx, userID, id); err != nil {
				return err
			}
		}
		return s.repomanager.Members(tx).Delete(ctx, userID, id)
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "member deleted", "user_id", userID, "member_id", id, "policy", string(s.policy))
	return nil
}
