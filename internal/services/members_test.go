package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
)

// seedMember creates a member with one transaction and one asset.
func seedMember(t *testing.T, e *env, sess session.Session) (*models.AccountUser, *models.Transaction, *models.Asset) {
	t.Helper()
	ctx := context.Background()
	m, err := e.members.CreateMember(ctx, sess, models.AccountUser{Name: "Kid", Relationship: "child", BirthDate: "2015-06-01"})
	require.NoError(t, err)

	in := expense("2024-03-01", "40", "children", "shoes")
	in.AccountUserID = &m.ID
	tx := e.addTx(t, sess, in)

	a, err := e.ledger.CreateAsset(ctx, sess, models.Asset{Name: "Piggy bank", Type: "cash", CurrentValue: dec("80"), AccountUserID: &m.ID})
	require.NoError(t, err)
	return m, tx, a
}

func TestMembers_CRUDAndIsolation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")

	m, err := e.members.CreateMember(ctx, alice, models.AccountUser{Name: "Sam", Relationship: "spouse"})
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, m.OwnerID)

	_, err = e.members.CreateMember(ctx, alice, models.AccountUser{Name: ""})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = e.members.CreateMember(ctx, alice, models.AccountUser{Name: "X", BirthDate: "yesterday"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	occ := "nurse"
	got, err := e.members.UpdateMember(ctx, alice, m.ID, models.AccountUserPatch{Occupation: &occ})
	require.NoError(t, err)
	assert.Equal(t, "nurse", got.Occupation)
	assert.Equal(t, "spouse", got.Relationship)

	list, err := e.members.ListMembers(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = e.members.GetMember(ctx, bob, m.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = e.members.UpdateMember(ctx, bob, m.ID, models.AccountUserPatch{Occupation: &occ})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, e.members.DeleteMember(ctx, bob, m.ID), common.ErrorNotFound)

	list, err = e.members.ListMembers(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Sam", list[0].Name)
}

func TestDeleteMember_Nullify(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	m, tx, a := seedMember(t, e, sess)

	assert.Equal(t, models.MemberDeleteNullify, e.members.Policy())
	require.NoError(t, e.members.DeleteMember(ctx, sess, m.ID))

	_, err := e.members.GetMember(ctx, sess, m.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	gotTx, err := e.ledger.GetTransaction(ctx, sess, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, gotTx.AccountUserID)

	gotAsset, err := e.ledger.GetAsset(ctx, sess, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gotAsset.AccountUserID)
}

func TestDeleteMember_Cascade(t *testing.T) {
	e := newEnv(t)
	e.members = NewMemberService(e.db, e.repos, nil, models.MemberDeleteCascade)
	ctx := context.Background()
	sess := e.register(t, "alice")
	m, tx, a := seedMember(t, e, sess)
	other := e.addTx(t, sess, expense("2024-03-02", "5", "food", "unassigned"))

	require.NoError(t, e.members.DeleteMember(ctx, sess, m.ID))

	_, err := e.ledger.GetTransaction(ctx, sess, tx.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = e.ledger.GetAsset(ctx, sess, a.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = e.ledger.GetTransaction(ctx, sess, other.ID)
	assert.NoError(t, err)

	raw, err := e.repos.Assets(e.db).GetByID(ctx, sess.UserID, a.ID)
	require.NoError(t, err)
	assert.False(t, raw.IsActive)
}

func TestDeleteMember_Reject(t *testing.T) {
	e := newEnv(t)
	e.members = NewMemberService(e.db, e.repos, nil, models.MemberDeleteReject)
	ctx := context.Background()
	sess := e.register(t, "alice")
	m, tx, a := seedMember(t, e, sess)

	err := e.members.DeleteMember(ctx, sess, m.ID)
	assert.ErrorIs(t, err, common.ErrorReferenced)
	_, err = e.members.GetMember(ctx, sess, m.ID)
	require.NoError(t, err)

	require.NoError(t, e.ledger.DeleteTransaction(ctx, sess, tx.ID))
	require.NoError(t, e.ledger.DeleteAsset(ctx, sess, a.ID))
	require.NoError(t, e.members.DeleteMember(ctx, sess, m.ID))
}

func TestNewMemberService_InvalidPolicyFallsBack(t *testing.T) {
	e := newEnv(t)
	s := NewMemberService(e.db, e.repos, nil, "explode")
	assert.Equal(t, models.MemberDeleteNullify, s.Policy())
}
