package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the use case layer
var (
	ErrDecisionExists = goerr.New("subject already has an active decision")
	ErrNoUndoWindow   = goerr.New("no undo window is open for subject")
)
