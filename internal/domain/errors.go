package domain

import "errors"

var (
	// ErrEmptyInput is returned when a required question or message is blank.
	ErrEmptyInput = errors.New("empty input")
	// ErrCorpusNotLoaded is returned when a query arrives before any
	// successful data load.
	ErrCorpusNotLoaded = errors.New("corpus not loaded")
)
