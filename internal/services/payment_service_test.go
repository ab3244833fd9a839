package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/linguahub/crm-service/internal/events"
	"github.com/linguahub/crm-service/internal/models"
	"github.com/linguahub/crm-service/internal/repositories"
	"github.com/linguahub/crm-service/internal/validator"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// nopFinance satisfies FinanceService for tests that only need cache
// invalidation to be a no-op.
type nopFinance struct{ FinanceService }

func (nopFinance) InvalidateCaches(context.Context) {}

func newPaymentFixture(t *testing.T) (*mockRepository, PaymentService, *events.MockEventPublisher, *models.Student) {
	t.Helper()
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	service := NewPaymentService(repo, nopFinance{}, publisher, testLogger(), validator.New())

	student := &models.Student{Name: "Dana", Phone: "+77010000001", Status: models.StudentActive}
	if err := repo.Student().Create(context.Background(), student); err != nil {
		t.Fatalf("failed to seed student: %v", err)
	}
	return repo, service, publisher, student
}

// checkBalanceInvariant asserts balance == sum of paid payments.
func checkBalanceInvariant(t *testing.T, repo *mockRepository, studentID uint) {
	t.Helper()
	ctx := context.Background()

	student, err := repo.Student().GetByID(ctx, studentID)
	if err != nil {
		t.Fatalf("failed to get student: %v", err)
	}
	sum, err := repo.Payment().SumPaidByStudent(ctx, studentID)
	if err != nil {
		t.Fatalf("failed to sum payments: %v", err)
	}
	if student.Balance != sum {
		t.Errorf("balance invariant violated: balance=%.2f, sum(paid)=%.2f", student.Balance, sum)
	}
}

func TestLedgerDelta(t *testing.T) {
	tests := []struct {
		name       string
		oldStatus  models.PaymentStatus
		oldAmount  float64
		newStatus  models.PaymentStatus
		newAmount  float64
		wantRevert float64
		wantApply  float64
	}{
		{"paid amount change", models.PaymentPaid, 25000, models.PaymentPaid, 30000, -25000, 30000},
		{"pending to paid", models.PaymentPending, 25000, models.PaymentPaid, 25000, 0, 25000},
		{"paid to pending", models.PaymentPaid, 25000, models.PaymentPending, 25000, -25000, 0},
		{"pending amount change", models.PaymentPending, 25000, models.PaymentPending, 30000, 0, 0},
		{"pending to paid with amount change", models.PaymentPending, 25000, models.PaymentPaid, 30000, 0, 30000},
		{"paid unchanged", models.PaymentPaid, 25000, models.PaymentPaid, 25000, -25000, 25000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			revert, apply := ledgerDelta(tt.oldStatus, tt.oldAmount, tt.newStatus, tt.newAmount)
			if revert != tt.wantRevert || apply != tt.wantApply {
				t.Errorf("ledgerDelta() = (%.2f, %.2f), want (%.2f, %.2f)",
					revert, apply, tt.wantRevert, tt.wantApply)
			}
		})
	}
}

func TestPaymentService_CreatePaid(t *testing.T) {
	repo, service, publisher, student := newPaymentFixture(t)
	ctx := context.Background()

	payment, err := service.Create(ctx, &PaymentCreateRequest{
		StudentID: student.ID,
		Amount:    25000,
		Method:    models.MethodCash,
		Status:    models.PaymentPaid,
	}, 1)
	if err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}

	if student.Balance != 25000 {
		t.Errorf("expected balance 25000, got %.2f", student.Balance)
	}
	checkBalanceInvariant(t, repo, student.ID)

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.TypePaymentReceived {
		t.Errorf("expected one payment.received event, got %v", published)
	}
	_ = payment
}

func TestPaymentService_CreatePendingHasNoEffect(t *testing.T) {
	repo, service, publisher, student := newPaymentFixture(t)
	ctx := context.Background()

	payment, err := service.Create(ctx, &PaymentCreateRequest{
		StudentID: student.ID,
		Amount:    25000,
		Method:    models.MethodCard,
		Status:    models.PaymentPending,
	}, 1)
	if err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}

	if student.Balance != 0 {
		t.Errorf("pending payment must not affect balance, got %.2f", student.Balance)
	}
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("pending payment must not publish payment.received")
	}

	// Delete without ever transitioning to paid: still no effect.
	if err := service.Delete(ctx, payment.ID, 1); err != nil {
		t.Fatalf("failed to delete payment: %v", err)
	}
	if student.Balance != 0 {
		t.Errorf("expected balance 0 after delete, got %.2f", student.Balance)
	}
	checkBalanceInvariant(t, repo, student.ID)
}

func TestPaymentService_UpdateAmount(t *testing.T) {
	repo, service, _, student := newPaymentFixture(t)
	ctx := context.Background()

	payment, err := service.Create(ctx, &PaymentCreateRequest{
		StudentID: student.ID,
		Amount:    25000,
		Method:    models.MethodCash,
		Status:    models.PaymentPaid,
	}, 1)
	if err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}

	// Amount 25000 -> 30000 while staying paid: balance moves by exactly
	// the difference, not to 55000.
	newAmount := 30000.0
	if _, err := service.Update(ctx, payment.ID, &PaymentUpdateRequest{Amount: &newAmount}, 1); err != nil {
		t.Fatalf("failed to update payment: %v", err)
	}
	if student.Balance != 30000 {
		t.Errorf("expected balance 30000, got %.2f", student.Balance)
	}
	checkBalanceInvariant(t, repo, student.ID)

	if err := service.Delete(ctx, payment.ID, 1); err != nil {
		t.Fatalf("failed to delete payment: %v", err)
	}
	if student.Balance != 0 {
		t.Errorf("expected balance 0 after delete, got %.2f", student.Balance)
	}
	checkBalanceInvariant(t, repo, student.ID)
}

func TestPaymentService_StatusFlip(t *testing.T) {
	repo, service, _, student := newPaymentFixture(t)
	ctx := context.Background()

	payment, err := service.Create(ctx, &PaymentCreateRequest{
		StudentID: student.ID,
		Amount:    18000,
		Method:    models.MethodTransfer,
		Status:    models.PaymentPending,
	}, 1)
	if err != nil {
		t.Fatalf("failed to create payment: %v", err)
	}

	paid := models.PaymentPaid
	if _, err := service.Update(ctx, payment.ID, &PaymentUpdateRequest{Status: &paid}, 1); err != nil {
		t.Fatalf("failed to flip to paid: %v", err)
	}
	if student.Balance != 18000 {
		t.Errorf("expected balance 18000 after pending->paid, got %.2f", student.Balance)
	}
	checkBalanceInvariant(t, repo, student.ID)

	pending := models.PaymentPending
	if _, err := service.Update(ctx, payment.ID, &PaymentUpdateRequest{Status: &pending}, 1); err != nil {
		t.Fatalf("failed to flip to pending: %v", err)
	}
	if student.Balance != 0 {
		t.Errorf("expected balance 0 after paid->pending, got %.2f", student.Balance)
	}
	checkBalanceInvariant(t, repo, student.ID)
}

func TestPaymentService_CreateUnknownStudent(t *testing.T) {
	_, service, _, _ := newPaymentFixture(t)

	_, err := service.Create(context.Background(), &PaymentCreateRequest{
		StudentID: 999,
		Amount:    1000,
		Method:    models.MethodCash,
		Status:    models.PaymentPaid,
	}, 1)
	if !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestPaymentService_LogWriteFailureRollsBack(t *testing.T) {
	repo, service, _, student := newPaymentFixture(t)
	ctx := context.Background()

	repo.failLogCreate = true
	_, err := service.Create(ctx, &PaymentCreateRequest{
		StudentID: student.ID,
		Amount:    5000,
		Method:    models.MethodCash,
		Status:    models.PaymentPaid,
	}, 1)
	if err == nil {
		t.Fatal("expected create to fail when audit write fails")
	}

	got, _ := repo.Student().GetByID(ctx, student.ID)
	if got.Balance != 0 {
		t.Errorf("expected balance rollback to 0, got %.2f", got.Balance)
	}
	if _, total, _ := repo.Payment().List(ctx, repositories.PaymentFilters{}); total != 0 {
		t.Errorf("expected no payment rows after rollback, got %d", total)
	}
}
