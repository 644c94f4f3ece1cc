package domain

import (
	"errors"
	"strings"
)

// Status represents the request-level lifecycle state. The labels match the
// values stored by the legacy front office, so existing records keep working.
type Status string

const (
	StatusDraft      Status = "Draft"
	StatusInProgress Status = "In Progress"
	StatusRejected   Status = "Rejected"
	StatusReleased   Status = "Released"
)

// Terminal reports whether no further stage transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusReleased
}

// Stage identifies one of the three sequential approval roles.
type Stage string

const (
	StageChecker  Stage = "checker"
	StageApproval Stage = "approval"
	StageReleaser Stage = "releaser"
)

// StageOrder is the fixed order in which stages must act.
func StageOrder() [3]Stage {
	return [3]Stage{StageChecker, StageApproval, StageReleaser}
}

// ParseStage validates a wire-level stage name.
func ParseStage(raw string) (Stage, error) {
	switch Stage(strings.TrimSpace(raw)) {
	case StageChecker:
		return StageChecker, nil
	case StageApproval:
		return StageApproval, nil
	case StageReleaser:
		return StageReleaser, nil
	default:
		return "", ErrUnknownStage
	}
}

// Outcome is the decision recorded by a stage actor.
type Outcome string

const (
	OutcomePending  Outcome = "Pending"
	OutcomeApproved Outcome = "Approved"
	OutcomeRejected Outcome = "Rejected"
)

// ParseOutcome validates a wire-level outcome; Pending is not a recordable
// decision and is rejected here.
func ParseOutcome(raw string) (Outcome, error) {
	switch Outcome(strings.TrimSpace(raw)) {
	case OutcomeApproved:
		return OutcomeApproved, nil
	case OutcomeRejected:
		return OutcomeRejected, nil
	default:
		return "", ErrUnknownOutcome
	}
}

// ApprovalDecision is the outcome recorded by one stage. Approved and
// Rejected are mutually exclusive; mutate only through Approve/Reject.
type ApprovalDecision struct {
	Approved bool   `json:"approved"`
	Rejected bool   `json:"rejected"`
	Feedback string `json:"feedback,omitempty"`
}

// Outcome derives the tri-state view from the stored boolean pair.
func (d ApprovalDecision) Outcome() Outcome {
	switch {
	case d.Approved:
		return OutcomeApproved
	case d.Rejected:
		return OutcomeRejected
	default:
		return OutcomePending
	}
}

func (d *ApprovalDecision) approve() {
	d.Approved = true
	d.Rejected = false
	d.Feedback = ""
}

func (d *ApprovalDecision) reject(feedback string) {
	d.Approved = false
	d.Rejected = true
	d.Feedback = feedback
}

// ApprovalStatus holds the three independent per-stage decisions.
type ApprovalStatus struct {
	Checker  ApprovalDecision `json:"checker"`
	Approval ApprovalDecision `json:"approval"`
	Releaser ApprovalDecision `json:"releaser"`
}

// NewApprovalStatus returns the neutral state with all stages pending.
func NewApprovalStatus() ApprovalStatus {
	return ApprovalStatus{}
}

// Decision returns the stored decision for a stage.
func (a ApprovalStatus) Decision(stage Stage) (ApprovalDecision, error) {
	switch stage {
	case StageChecker:
		return a.Checker, nil
	case StageApproval:
		return a.Approval, nil
	case StageReleaser:
		return a.Releaser, nil
	default:
		return ApprovalDecision{}, ErrUnknownStage
	}
}

func (a *ApprovalStatus) decisionRef(stage Stage) *ApprovalDecision {
	switch stage {
	case StageChecker:
		return &a.Checker
	case StageApproval:
		return &a.Approval
	case StageReleaser:
		return &a.Releaser
	default:
		return nil
	}
}

// NextPending returns the first stage, in fixed order, that has not decided
// yet. The second result is false when every stage has decided.
func (a ApprovalStatus) NextPending() (Stage, bool) {
	for _, stage := range StageOrder() {
		decision, _ := a.Decision(stage)
		if decision.Outcome() == OutcomePending {
			return stage, true
		}
	}
	return "", false
}

var (
	ErrNoItems            = errors.New("request must contain at least one item")
	ErrTerminalStatus     = errors.New("request is in a terminal status")
	ErrNotInProgress      = errors.New("request is not in progress")
	ErrOutOfOrderStage    = errors.New("stage is not eligible to decide yet")
	ErrFeedbackRequired   = errors.New("feedback is required when rejecting")
	ErrUnknownStage       = errors.New("unknown approval stage")
	ErrUnknownOutcome     = errors.New("unknown decision outcome")
	ErrEmptyRequestNumber = errors.New("request number is required")
	ErrEmptyRequester     = errors.New("requester is required")
	ErrNotOwner           = errors.New("only the owning requester may submit")
)

// RequestRecord is the aggregate owned by the request lifecycle engine. The
// store-assigned ID is opaque and immutable; RequestNumber is the business
// key users reference.
type RequestRecord struct {
	ID            string
	RequestNumber string
	Requester     string
	Entity        string
	Items         []LineItem
	Status        Status
	Approvals     ApprovalStatus
}

// NewRequestRecord builds a freshly submitted record: items validated,
// status In Progress, every stage pending.
func NewRequestRecord(id, requestNumber, requester, entity string, items []LineItem) (*RequestRecord, error) {
	if strings.TrimSpace(requestNumber) == "" {
		return nil, ErrEmptyRequestNumber
	}
	if strings.TrimSpace(requester) == "" {
		return nil, ErrEmptyRequester
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	return &RequestRecord{
		ID:            id,
		RequestNumber: requestNumber,
		Requester:     requester,
		Entity:        entity,
		Items:         cloneItems(items),
		Status:        StatusInProgress,
		Approvals:     NewApprovalStatus(),
	}, nil
}

// Resubmit overwrites the item list and sends the record back to the start
// of the approval chain: all three stages pending, status In Progress.
// Records in a terminal status stay untouched; re-opening a rejected request
// is deliberately unsupported.
func (r *RequestRecord) Resubmit(requester string, items []LineItem) error {
	if r.Status.Terminal() {
		return ErrTerminalStatus
	}
	if requester != r.Requester {
		return ErrNotOwner
	}
	if err := ValidateItems(items); err != nil {
		return err
	}
	r.Items = cloneItems(items)
	r.Approvals = NewApprovalStatus()
	r.Status = StatusInProgress
	return nil
}

// Decide records one stage's outcome. Only the first pending stage in the
// fixed checker -> approval -> releaser order may act, and only while the
// record is In Progress. A rejection short-circuits the chain; an approval
// by the releaser completes it.
func (r *RequestRecord) Decide(stage Stage, outcome Outcome, feedback string) error {
	if r.Status != StatusInProgress {
		if r.Status.Terminal() {
			return ErrTerminalStatus
		}
		return ErrNotInProgress
	}
	decision := r.Approvals.decisionRef(stage)
	if decision == nil {
		return ErrUnknownStage
	}
	eligible, ok := r.Approvals.NextPending()
	if !ok || eligible != stage {
		return ErrOutOfOrderStage
	}
	switch outcome {
	case OutcomeApproved:
		decision.approve()
		if stage == StageReleaser {
			r.Status = StatusReleased
		}
	case OutcomeRejected:
		if strings.TrimSpace(feedback) == "" {
			return ErrFeedbackRequired
		}
		decision.reject(feedback)
		r.Status = StatusRejected
	default:
		return ErrUnknownOutcome
	}
	return nil
}

// Clone returns a deep copy so adapters can hand out records safely.
func (r *RequestRecord) Clone() *RequestRecord {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Items = cloneItems(r.Items)
	return &clone
}

func cloneItems(items []LineItem) []LineItem {
	return append([]LineItem{}, items...)
}
