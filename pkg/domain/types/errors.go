package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classifying remote store failures. The mutation layer uses
// these to decide whether a retry handle should be offered: transient
// failures get one, auth and validation failures do not.
var (
	ErrTagAuth       = goerr.NewTag("auth")
	ErrTagValidation = goerr.NewTag("validation")
	ErrTagTransient  = goerr.NewTag("transient")
)

// Sentinel errors shared across repository backends
var (
	ErrSubjectNotFound  = goerr.New("subject not found")
	ErrDecisionNotFound = goerr.New("decision not found")
)
