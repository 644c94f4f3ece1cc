package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validItem() LineItem {
	return LineItem{
		Merk:            "Logitech",
		DetailSpecs:     "MX Keys S, US layout",
		Color:           "Graphite",
		Qty:             2,
		UOM:             "pcs",
		LinkRef:         "https://example.com/mx-keys-s",
		BudgetMax:       decimal.NewFromInt(1500000),
		TaxCost:         decimal.NewFromInt(165000),
		DeliveryFee:     decimal.NewFromInt(25000),
		DeliveryDate:    time.Now().AddDate(0, 0, MinDeliveryLeadDays+3),
		Receiver:        "Andi",
		DeliveryAddress: KnownDeliveryAddresses[0],
	}
}

func newTestRecord(t *testing.T) *RequestRecord {
	t.Helper()
	record, err := NewRequestRecord("id-1", "REQ-001", "andi", "PT Cyber", []LineItem{validItem()})
	require.NoError(t, err)
	return record
}

func TestNewRequestRecord_StartsInProgressAllPending(t *testing.T) {
	record := newTestRecord(t)

	require.Equal(t, StatusInProgress, record.Status)
	next, ok := record.Approvals.NextPending()
	require.True(t, ok)
	require.Equal(t, StageChecker, next)
}

func TestNewRequestRecord_RejectsMissingFields(t *testing.T) {
	_, err := NewRequestRecord("id-1", "", "andi", "", []LineItem{validItem()})
	require.ErrorIs(t, err, ErrEmptyRequestNumber)

	_, err = NewRequestRecord("id-1", "REQ-001", " ", "", []LineItem{validItem()})
	require.ErrorIs(t, err, ErrEmptyRequester)

	_, err = NewRequestRecord("id-1", "REQ-001", "andi", "", nil)
	require.ErrorIs(t, err, ErrNoItems)
}

func TestDecide_FullApprovalChainReleases(t *testing.T) {
	record := newTestRecord(t)

	require.NoError(t, record.Decide(StageChecker, OutcomeApproved, ""))
	require.Equal(t, StatusInProgress, record.Status)

	require.NoError(t, record.Decide(StageApproval, OutcomeApproved, ""))
	require.Equal(t, StatusInProgress, record.Status)

	require.NoError(t, record.Decide(StageReleaser, OutcomeApproved, ""))
	require.Equal(t, StatusReleased, record.Status)
	require.True(t, record.Status.Terminal())

	_, ok := record.Approvals.NextPending()
	require.False(t, ok)
}

func TestDecide_RejectionIsTerminal(t *testing.T) {
	record := newTestRecord(t)

	require.NoError(t, record.Decide(StageChecker, OutcomeApproved, ""))
	require.NoError(t, record.Decide(StageApproval, OutcomeRejected, "budget exceeds Q3 allocation"))

	require.Equal(t, StatusRejected, record.Status)
	require.True(t, record.Approvals.Approval.Rejected)
	require.Equal(t, "budget exceeds Q3 allocation", record.Approvals.Approval.Feedback)

	err := record.Decide(StageReleaser, OutcomeApproved, "")
	require.ErrorIs(t, err, ErrTerminalStatus)
}

func TestDecide_RejectionRequiresFeedback(t *testing.T) {
	record := newTestRecord(t)

	err := record.Decide(StageChecker, OutcomeRejected, "   ")
	require.ErrorIs(t, err, ErrFeedbackRequired)
	require.Equal(t, StatusInProgress, record.Status)
	require.Equal(t, OutcomePending, record.Approvals.Checker.Outcome())
}

func TestDecide_OutOfOrderStages(t *testing.T) {
	record := newTestRecord(t)

	err := record.Decide(StageApproval, OutcomeApproved, "")
	require.ErrorIs(t, err, ErrOutOfOrderStage)

	err = record.Decide(StageReleaser, OutcomeApproved, "")
	require.ErrorIs(t, err, ErrOutOfOrderStage)

	require.NoError(t, record.Decide(StageChecker, OutcomeApproved, ""))

	// A stage that already decided is no longer eligible either.
	err = record.Decide(StageChecker, OutcomeApproved, "")
	require.ErrorIs(t, err, ErrOutOfOrderStage)
}

func TestDecide_UnknownStageAndOutcome(t *testing.T) {
	record := newTestRecord(t)

	err := record.Decide(Stage("auditor"), OutcomeApproved, "")
	require.ErrorIs(t, err, ErrUnknownStage)

	err = record.Decide(StageChecker, Outcome("Maybe"), "")
	require.ErrorIs(t, err, ErrUnknownOutcome)
}

func TestApprovalDecision_MutualExclusion(t *testing.T) {
	record := newTestRecord(t)

	require.NoError(t, record.Decide(StageChecker, OutcomeRejected, "specs incomplete"))
	checker := record.Approvals.Checker
	require.True(t, checker.Rejected)
	require.False(t, checker.Approved)
	require.Equal(t, OutcomeRejected, checker.Outcome())
}

func TestResubmit_ResetsApprovalChain(t *testing.T) {
	record := newTestRecord(t)
	require.NoError(t, record.Decide(StageChecker, OutcomeApproved, ""))

	replacement := validItem()
	replacement.Qty = 5
	require.NoError(t, record.Resubmit("andi", []LineItem{replacement}))

	require.Equal(t, StatusInProgress, record.Status)
	require.Equal(t, 5, record.Items[0].Qty)
	next, ok := record.Approvals.NextPending()
	require.True(t, ok)
	require.Equal(t, StageChecker, next)
}

func TestResubmit_TerminalAndOwnershipGuards(t *testing.T) {
	record := newTestRecord(t)

	err := record.Resubmit("budi", []LineItem{validItem()})
	require.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, record.Decide(StageChecker, OutcomeRejected, "wrong vendor"))
	err = record.Resubmit("andi", []LineItem{validItem()})
	require.ErrorIs(t, err, ErrTerminalStatus)
	require.Equal(t, StatusRejected, record.Status)
}

func TestResubmit_ValidationFailureLeavesRecordUnchanged(t *testing.T) {
	record := newTestRecord(t)
	original := record.Clone()

	bad := validItem()
	bad.Qty = 0
	err := record.Resubmit("andi", []LineItem{bad})
	require.ErrorIs(t, err, ErrInvalidItems)

	require.Equal(t, original.Items, record.Items)
	require.Equal(t, original.Status, record.Status)
	require.Equal(t, original.Approvals, record.Approvals)
}

func TestParseStageAndOutcome(t *testing.T) {
	stage, err := ParseStage(" checker ")
	require.NoError(t, err)
	require.Equal(t, StageChecker, stage)

	_, err = ParseStage("manager")
	require.ErrorIs(t, err, ErrUnknownStage)

	outcome, err := ParseOutcome("Approved")
	require.NoError(t, err)
	require.Equal(t, OutcomeApproved, outcome)

	// Pending is a derived state, never a recordable decision.
	_, err = ParseOutcome("Pending")
	require.ErrorIs(t, err, ErrUnknownOutcome)
}
