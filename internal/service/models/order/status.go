package order

import "errors"

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending       Status = "Pending"
	StatusReceived      Status = "Received"
	StatusInPreparation Status = "InPreparation"
	StatusReady         Status = "Ready"
	StatusFinished      Status = "Finished"
	StatusCancelled     Status = "Cancelled"
)

var ErrInvalidStatus = errors.New("invalid status")

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusReceived,
	StatusInPreparation,
	StatusReady,
	StatusFinished,
	StatusCancelled,
}

// transitions is the complete set of permitted edges.
var transitions = map[Status][]Status{
	StatusPending:       {StatusReceived, StatusCancelled},
	StatusReceived:      {StatusInPreparation, StatusCancelled},
	StatusInPreparation: {StatusReady},
	StatusReady:         {StatusFinished},
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus returns the Status named by s or ErrInvalidStatus.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}

	return "", ErrInvalidStatus
}

// CanTransitionTo reports whether s -> next is a permitted edge.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// ActiveStatuses are the statuses shown on the kitchen board, most urgent first.
var ActiveStatuses = []Status{
	StatusReady,
	StatusInPreparation,
	StatusReceived,
}

// ActivePriority returns the board position of s, or -1 if s is not active.
func (s Status) ActivePriority() int {
	for i, st := range ActiveStatuses {
		if st == s {
			return i
		}
	}

	return -1
}
