package game

import "errors"

// FailureKind tags a rejected transition. Every failure is locally
// recoverable: the caller shows the message and the prior state stands
// untouched.
type FailureKind uint8

const (
	FailureNone FailureKind = iota
	// FailureNothingToCommit - commit was requested with no staged sets.
	FailureNothingToCommit
	// FailureInvalidStagedSet - one or more staged sets fail validation.
	FailureInvalidStagedSet
	// FailureBoardInvalid - the board as a whole does not validate; the
	// caller should cancel the turn.
	FailureBoardInvalid
	// FailureMeldBelowThreshold - a pre-meld turn scored more than zero but
	// under the 30-point initial meld requirement.
	FailureMeldBelowThreshold
)

// RuleError is the tagged failure result of a rejected transition.
type RuleError struct {
	Kind FailureKind
	msg  string
}

func (e *RuleError) Error() string { return e.msg }

// Is lets errors.Is match two RuleErrors by kind.
func (e *RuleError) Is(target error) bool {
	var other *RuleError
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

func ruleError(kind FailureKind, msg string) *RuleError {
	return &RuleError{Kind: kind, msg: msg}
}

// Sentinel values for errors.Is checks.
var (
	ErrNothingToCommit    = &RuleError{Kind: FailureNothingToCommit, msg: "there are no staged sets to commit"}
	ErrInvalidStagedSet   = &RuleError{Kind: FailureInvalidStagedSet, msg: "a staged set is not a legal run or group"}
	ErrBoardInvalid       = &RuleError{Kind: FailureBoardInvalid, msg: "the board is no longer valid; cancel the turn"}
	ErrMeldBelowThreshold = &RuleError{Kind: FailureMeldBelowThreshold, msg: "the initial meld must be worth at least 30 points"}
)

// KindOf extracts the failure kind from an error, or FailureNone.
func KindOf(err error) FailureKind {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Kind
	}
	return FailureNone
}
