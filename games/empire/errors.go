/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package empire

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrForbidden         = errors.New("forbidden")
)

var (
	ErrSessionNotFound = fmt.Errorf("game %w", ErrNotFound)
	ErrPlayerNotFound  = fmt.Errorf("player %w", ErrNotFound)

	ErrNoPlayers      = fmt.Errorf("%w: need at least one player", ErrInvalidTransition)
	ErrNotPlaying     = fmt.Errorf("%w: game is not in progress", ErrInvalidTransition)
	ErrNotYourTurn    = fmt.Errorf("%w: not your turn to guess", ErrInvalidTransition)
	ErrGuessPending   = fmt.Errorf("%w: a guess is already awaiting confirmation", ErrInvalidTransition)
	ErrNoPendingGuess = fmt.Errorf("%w: no guess is awaiting confirmation", ErrInvalidTransition)
	ErrNotTarget      = fmt.Errorf("%w: only the guessed player may respond", ErrInvalidTransition)
	ErrSelfGuess      = fmt.Errorf("%w: cannot guess yourself", ErrInvalidTransition)
	ErrSameEmpire     = fmt.Errorf("%w: target already belongs to your empire", ErrInvalidTransition)
	ErrNoPrompts      = fmt.Errorf("%w: no prompts to advance", ErrInvalidTransition)
	ErrInvalidOutcome = fmt.Errorf("%w: unknown guess outcome", ErrInvalidTransition)

	ErrNotHost = fmt.Errorf("%w: only the host can perform this action", ErrForbidden)
)
