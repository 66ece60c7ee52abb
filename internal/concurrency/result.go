package concurrency

// Rule identifies which precedence rule rejected a save. Used for metrics
// and logging; callers surface only the message.
type Rule string

const (
	RuleAccountMoved   Rule = "account_moved"
	RuleResourceMoved  Rule = "resource_moved"
	RuleAlreadyClosed  Rule = "already_closed"
	RuleNotClosed      Rule = "not_closed"
	RulePaymentUnknown Rule = "payment_unknown"
	RuleSumChanged     Rule = "sum_changed"
)

// Result is the verdict of a concurrency check. Conflicts are expected,
// recoverable business events, so they travel as values rather than
// errors: an empty ErrorMessage means the save may proceed.
type Result struct {
	Rule         Rule
	ErrorMessage string
}

// Continue returns a verdict allowing the save.
func Continue() Result {
	return Result{}
}

// Break returns a verdict rejecting the save with a human-readable reason.
func Break(rule Rule, message string) Result {
	return Result{Rule: rule, ErrorMessage: message}
}

// CanContinue reports whether the save may proceed.
func (r Result) CanContinue() bool {
	return r.ErrorMessage == ""
}
