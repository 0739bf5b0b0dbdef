package scheduling

// Status machine: waiting -> in_progress -> done, with side exits to
// canceled and skipped. Transitions are validated against an explicit
// forbidden set; a transition to the current status is rejected as a
// no-op error. Anything else is accepted and audited.

type transition struct {
	from, to TicketStatus
}

var forbiddenTransitions = map[transition]struct{}{
	{StatusCanceled, StatusInProgress}: {},
	{StatusCanceled, StatusDone}:       {},
	{StatusCanceled, StatusSkipped}:    {},
	{StatusInProgress, StatusCanceled}: {},
	{StatusDone, StatusCanceled}:       {},
	{StatusSkipped, StatusCanceled}:    {},
	{StatusInProgress, StatusSkipped}:  {},
}

// checkTransition validates from -> to. Returns ErrUnknownStatus for a
// status outside the machine, ErrSameStatus for a self-loop and
// ErrInvalidTransition for a forbidden edge.
func checkTransition(from, to TicketStatus) error {
	if !ValidStatus(to) {
		return ErrUnknownStatus
	}
	if from == to {
		return ErrSameStatus
	}
	if _, bad := forbiddenTransitions[transition{from, to}]; bad {
		return ErrInvalidTransition
	}
	return nil
}

// isQueueTerminal reports whether a status frees up a queue position,
// which makes the next waiting tickets eligible for a call-up notification.
func isQueueTerminal(s TicketStatus) bool {
	return s == StatusDone || s == StatusSkipped || s == StatusCanceled
}
