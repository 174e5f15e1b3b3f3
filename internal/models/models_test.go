package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductStatusTransitions(t *testing.T) {
	assert.True(t, ProductStatusActive.CanTransitionTo(ProductStatusInactive))
	assert.True(t, ProductStatusInactive.CanTransitionTo(ProductStatusActive))

	assert.False(t, ProductStatusActive.CanTransitionTo(ProductStatusSold))
	assert.False(t, ProductStatusSold.CanTransitionTo(ProductStatusActive))
	assert.False(t, ProductStatusSold.CanTransitionTo(ProductStatusInactive))
	assert.False(t, ProductStatus("archived").Valid())
}

func TestApprovalTransitionsAreTerminal(t *testing.T) {
	assert.True(t, ApprovalStatusPending.CanTransitionTo(ApprovalStatusApproved))
	assert.True(t, ApprovalStatusPending.CanTransitionTo(ApprovalStatusRejected))

	for _, from := range []ApprovalStatus{ApprovalStatusApproved, ApprovalStatusRejected} {
		for _, to := range []ApprovalStatus{ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected} {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTransactionTransitionsAreTerminal(t *testing.T) {
	terminal := []TransactionStatus{TransactionStatusCompleted, TransactionStatusCancelled, TransactionStatusDisputed}

	for _, to := range terminal {
		assert.True(t, TransactionStatusPending.CanTransitionTo(to))
	}
	for _, from := range terminal {
		for _, to := range append(terminal, TransactionStatusPending) {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestReportAndTicketTransitions(t *testing.T) {
	assert.True(t, ReportStatusPending.CanTransitionTo(ReportStatusReviewed))
	assert.True(t, ReportStatusReviewed.CanTransitionTo(ReportStatusResolved))
	assert.False(t, ReportStatusResolved.CanTransitionTo(ReportStatusPending))
	assert.False(t, ReportStatusReviewed.CanTransitionTo(ReportStatusPending))

	assert.True(t, TicketStatusOpen.CanTransitionTo(TicketStatusInProgress))
	assert.True(t, TicketStatusResolved.CanTransitionTo(TicketStatusOpen))
	assert.False(t, TicketStatusClosed.CanTransitionTo(TicketStatusOpen))
	assert.False(t, TicketPriority("urgent").Valid())
}

func TestMoneyJSON(t *testing.T) {
	var payload struct {
		Price Money `json:"price"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"price": 100}`), &payload))
	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"100.00"}`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`{"price": "19.9"}`), &payload))
	assert.Equal(t, "19.90", payload.Price.String())
}

func TestMoneyValidPrice(t *testing.T) {
	assert.True(t, MustMoney("0.01").ValidPrice())
	assert.True(t, MustMoney("99999999.99").ValidPrice())
	assert.False(t, MustMoney("0").ValidPrice())
	assert.False(t, MustMoney("-5").ValidPrice())
	assert.False(t, MustMoney("1.001").ValidPrice())
	assert.False(t, MustMoney("100000000").ValidPrice())
	assert.False(t, Money{}.ValidPrice())
}

func TestProductVisibleTo(t *testing.T) {
	seller := &User{BaseModel: BaseModel{ID: uuid.New()}}
	other := &User{BaseModel: BaseModel{ID: uuid.New()}}
	admin := &User{BaseModel: BaseModel{ID: uuid.New()}, IsAdmin: true}

	p := &Product{SellerID: seller.ID, ApprovalStatus: ApprovalStatusPending}
	assert.True(t, p.VisibleTo(seller))
	assert.True(t, p.VisibleTo(admin))
	assert.False(t, p.VisibleTo(other))
	assert.False(t, p.VisibleTo(nil))

	p.ApprovalStatus = ApprovalStatusApproved
	assert.True(t, p.VisibleTo(nil))
}

func TestUserPasswordAndProfile(t *testing.T) {
	u := &User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, u.SetPassword("secret1"))
	assert.NotEqual(t, "secret1", u.Password)
	assert.NoError(t, u.CheckPassword("secret1"))
	assert.Error(t, u.CheckPassword("wrong"))

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "password")

	profile := u.PublicProfile()
	assert.Equal(t, "Ana", profile.Name)
}

func TestPrepareKeepsExistingValues(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b := BaseModel{ID: id, CreatedAt: at}
	b.Prepare(time.Now())
	assert.Equal(t, id, b.ID)
	assert.Equal(t, at, b.CreatedAt)

	var fresh BaseModel
	fresh.Prepare(at)
	assert.NotEqual(t, uuid.Nil, fresh.ID)
	assert.Equal(t, at, fresh.CreatedAt)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now))
	assert.True(t, s.Expired(now.Add(time.Minute)))
}
