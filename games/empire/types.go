/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package empire

import "time"

// Phase is the lifecycle stage of a session.
type Phase string

const (
	PhaseLobby    Phase = "Lobby"
	PhasePlaying  Phase = "Playing"
	PhaseFinished Phase = "Finished"
)

func (p Phase) String() string {
	return string(p)
}

// Outcome is what a guesser claims about their own guess.
type Outcome string

const (
	OutcomeCorrect Outcome = "Correct"
	OutcomeWrong   Outcome = "Wrong"
)

func (o Outcome) Valid() bool {
	return o == OutcomeCorrect || o == OutcomeWrong
}

// GuessStatus tracks a claim through the confirmation protocol.
type GuessStatus string

const (
	GuessPending   GuessStatus = "Pending"
	GuessConfirmed GuessStatus = "Confirmed"
	GuessDenied    GuessStatus = "Denied"
	GuessCancelled GuessStatus = "Cancelled"
)

// Player is one participant in a session.
//
// LeaderID is empty while the player leads their own empire. Otherwise it
// names the leader that absorbed them, and that leader's LeaderID is always
// empty.
type Player struct {
	ID              string
	Name            string
	DeviceToken     string
	SubmittedPrompt string
	LeaderID        string
	JoinedAt        time.Time
}

// Independent reports whether the player still leads their own empire.
func (p Player) Independent() bool {
	return p.LeaderID == ""
}

// Prompt is a submitted secret paired with its author.
type Prompt struct {
	AuthorID string
	Text     string
}

// PendingGuess is a claimed correct guess waiting on the target's answer.
type PendingGuess struct {
	ID             string
	GuesserID      string
	TargetID       string
	ClaimedOutcome Outcome
	Status         GuessStatus
	CreatedAt      time.Time
}
