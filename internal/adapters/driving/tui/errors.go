package tui

import "errors"

// ErrMissingPromptService is returned when the prompt service is not provided.
var ErrMissingPromptService = errors.New("tui: prompt service is required")

// ErrMissingActionService is returned when the action service is not provided.
var ErrMissingActionService = errors.New("tui: action service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
