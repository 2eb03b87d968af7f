package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
)

func TestPayAttendanceFeeKeepsTotalInSyncWithLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	if _, err := f.payment.PayAttendanceFee(ctx, f.principal, group.ID, a.ID, 50); err != nil {
		t.Fatalf("PayAttendanceFee 50: %v", err)
	}
	updated, err := f.payment.PayAttendanceFee(ctx, f.principal, group.ID, a.ID, 30)
	if err != nil {
		t.Fatalf("PayAttendanceFee 30: %v", err)
	}

	if updated.AttendanceTotalPaid != 80 {
		t.Fatalf("total paid: want=80 got=%d", updated.AttendanceTotalPaid)
	}
	if len(updated.AttendancePayments) != 2 {
		t.Fatalf("ledger length: want=2 got=%d", len(updated.AttendancePayments))
	}
	// Most recent entry first.
	if updated.AttendancePayments[0].Amount != 30 || updated.AttendancePayments[1].Amount != 50 {
		t.Fatalf("ledger order: want [30 50] got [%d %d]", updated.AttendancePayments[0].Amount, updated.AttendancePayments[1].Amount)
	}

	var sum int64
	for _, entry := range updated.AttendancePayments {
		sum += entry.Amount
	}
	if sum != updated.AttendanceTotalPaid {
		t.Fatalf("ledger sum: want=%d got=%d", updated.AttendanceTotalPaid, sum)
	}
}

func TestPayAttendanceFeeRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	_, err := f.payment.PayAttendanceFee(ctx, f.principal, group.ID, a.ID, 0)
	assertCode(t, err, apierr.CodeValidation)
	_, err = f.payment.PayAttendanceFee(ctx, f.principal, group.ID, a.ID, -50)
	assertCode(t, err, apierr.CodeValidation)

	student := f.reloadStudent(t, a.ID)
	if len(student.AttendancePayments) != 0 || student.AttendanceTotalPaid != 0 {
		t.Fatalf("ledger touched by rejected payment: entries=%d total=%d", len(student.AttendancePayments), student.AttendanceTotalPaid)
	}
}

func TestReverseAttendanceFeeIsExactInverseOfLatestPayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	if _, err := f.payment.PayAttendanceFee(ctx, f.principal, group.ID, a.ID, 50); err != nil {
		t.Fatalf("PayAttendanceFee 50: %v", err)
	}
	if _, err := f.payment.PayAttendanceFee(ctx, f.principal, group.ID, a.ID, 30); err != nil {
		t.Fatalf("PayAttendanceFee 30: %v", err)
	}

	updated, err := f.payment.ReverseAttendanceFee(ctx, f.principal, group.ID, a.ID)
	if err != nil {
		t.Fatalf("ReverseAttendanceFee: %v", err)
	}
	if updated.AttendanceTotalPaid != 50 {
		t.Fatalf("total paid after reversal: want=50 got=%d", updated.AttendanceTotalPaid)
	}
	if len(updated.AttendancePayments) != 1 {
		t.Fatalf("ledger length after reversal: want=1 got=%d", len(updated.AttendancePayments))
	}
	if updated.AttendancePayments[0].Amount != 50 {
		t.Fatalf("surviving entry amount: want=50 got=%d", updated.AttendancePayments[0].Amount)
	}
}

func TestReverseAttendanceFeeOnEmptyLedgerFailsWithoutSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	_, err := f.payment.ReverseAttendanceFee(ctx, f.principal, group.ID, a.ID)
	assertCode(t, err, apierr.CodeNothingToReverse)

	student := f.reloadStudent(t, a.ID)
	if len(student.AttendancePayments) != 0 || student.AttendanceTotalPaid != 0 {
		t.Fatalf("ledger touched by failed reversal: entries=%d total=%d", len(student.AttendancePayments), student.AttendanceTotalPaid)
	}
}

func TestBooksFeeLedgerLIFO(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	if _, err := f.payment.PayBooksFee(ctx, f.principal, group.ID, a.ID); err != nil {
		t.Fatalf("PayBooksFee first: %v", err)
	}
	updated, err := f.payment.PayBooksFee(ctx, f.principal, group.ID, a.ID)
	if err != nil {
		t.Fatalf("PayBooksFee second: %v", err)
	}
	if len(updated.BookPayments) != 2 {
		t.Fatalf("book ledger length: want=2 got=%d", len(updated.BookPayments))
	}

	updated, err = f.payment.ReverseBooksFee(ctx, f.principal, group.ID, a.ID)
	if err != nil {
		t.Fatalf("ReverseBooksFee: %v", err)
	}
	if len(updated.BookPayments) != 1 {
		t.Fatalf("book ledger length after reversal: want=1 got=%d", len(updated.BookPayments))
	}

	if _, err := f.payment.ReverseBooksFee(ctx, f.principal, group.ID, a.ID); err != nil {
		t.Fatalf("ReverseBooksFee second: %v", err)
	}
	_, err = f.payment.ReverseBooksFee(ctx, f.principal, group.ID, a.ID)
	assertCode(t, err, apierr.CodeNothingToReverse)
}

func TestSetFeeAmountAppliesToEveryOwnedGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g1 := f.mustCreateGroup(t, "saturday group")
	g2 := f.mustCreateGroup(t, "sunday group")

	if err := f.payment.SetFeeAmount(ctx, f.principal, FeeKindAttendance, 75); err != nil {
		t.Fatalf("SetFeeAmount attendance: %v", err)
	}
	if err := f.payment.SetFeeAmount(ctx, f.principal, FeeKindBooks, 120); err != nil {
		t.Fatalf("SetFeeAmount books: %v", err)
	}

	for _, id := range []uuid.UUID{g1.ID, g2.ID} {
		group := f.reloadGroup(t, id)
		if group.AttendanceFee != 75 {
			t.Fatalf("attendance fee: want=75 got=%d", group.AttendanceFee)
		}
		if group.BooksFee != 120 {
			t.Fatalf("books fee: want=120 got=%d", group.BooksFee)
		}
	}
}

func TestSetFeeAmountRejectsUnknownKind(t *testing.T) {
	f := newFixture(t)
	err := f.payment.SetFeeAmount(context.Background(), f.principal, "uniforms", 10)
	assertCode(t, err, apierr.CodeValidation)
}
