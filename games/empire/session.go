/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package empire

import (
	"crypto/subtle"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// PromptsHiddenAfter is the number of completed prompt cycles after which the
// shared display stops showing prompt text.
const PromptsHiddenAfter = 2

// Session holds all mutable state for one game. Every exported method runs
// inside a single critical section on mu, so callers never observe a
// partially applied transition.
type Session struct {
	mu sync.RWMutex

	code       string
	hostSecret string
	createdAt  time.Time
	lastActive atomic.Int64

	players         []*Player
	prompts         []Prompt
	promptCursor    int
	cycleCount      int
	activeGuesserID string
	pending         *PendingGuess
	lastGuess       *PendingGuess
	phase           Phase
	winnerID        string
	autoAdvance     bool

	// rng is only touched with mu held for writing.
	rng *rand.Rand
	now func() time.Time
}

func newSession(code, hostSecret string, rng *rand.Rand, now func() time.Time) *Session {
	s := &Session{
		code:        code,
		hostSecret:  hostSecret,
		createdAt:   now(),
		phase:       PhaseLobby,
		autoAdvance: true,
		rng:         rng,
		now:         now,
	}
	s.lastActive.Store(s.createdAt.UnixNano())

	return s
}

// update runs fn with exclusive access to the session state.
func (s *Session) update(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()

	return fn()
}

// read runs fn with shared access to the session state.
func (s *Session) read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.touch()

	fn()
}

func (s *Session) touch() {
	s.lastActive.Store(s.now().UnixNano())
}

// Code returns the session's game code.
func (s *Session) Code() string {
	return s.code
}

// HostSecret returns the secret proving host privilege.
func (s *Session) HostSecret() string {
	return s.hostSecret
}

// IsHost reports whether secret matches the host secret.
func (s *Session) IsHost(secret string) bool {
	if secret == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.hostSecret)) == 1
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastActive returns when any operation last ran against the session.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// AddOrReconnectPlayer returns the player owning deviceToken after renaming
// them, or registers a new player if the token is empty or unknown.
func (s *Session) AddOrReconnectPlayer(name, deviceToken string) (Player, error) {
	name = strings.TrimSpace(name)

	var joined Player

	err := s.update(func() error {
		if p := s.playerByToken(deviceToken); p != nil {
			p.Name = name
			joined = *p

			return nil
		}

		token, err := NewToken()
		if err != nil {
			return err
		}

		p := &Player{
			ID:          NewID(),
			Name:        name,
			DeviceToken: token,
			JoinedAt:    s.now(),
		}
		s.players = append(s.players, p)
		joined = *p

		return nil
	})

	return joined, err
}

// FindPlayerByToken resolves a device token to its player.
func (s *Session) FindPlayerByToken(deviceToken string) (Player, bool) {
	var (
		found Player
		ok    bool
	)

	s.read(func() {
		if p := s.playerByToken(deviceToken); p != nil {
			found, ok = *p, true
		}
	})

	return found, ok
}

// SubmitPrompt records the player's prompt for the next round.
func (s *Session) SubmitPrompt(playerID, text string) error {
	return s.update(func() error {
		p := s.playerByID(playerID)
		if p == nil {
			return ErrPlayerNotFound
		}

		p.SubmittedPrompt = strings.TrimSpace(text)

		return nil
	})
}

// Start deals the submitted prompts in random order and hands the first turn
// to a random player.
func (s *Session) Start() error {
	return s.update(func() error {
		if len(s.players) == 0 {
			return ErrNoPlayers
		}

		prompts := make([]Prompt, 0, len(s.players))
		for _, p := range s.players {
			p.LeaderID = ""

			if text := strings.TrimSpace(p.SubmittedPrompt); text != "" {
				prompts = append(prompts, Prompt{AuthorID: p.ID, Text: text})
			}
		}

		s.rng.Shuffle(len(prompts), func(i, j int) {
			prompts[i], prompts[j] = prompts[j], prompts[i]
		})

		s.prompts = prompts
		s.promptCursor = 0
		s.cycleCount = 0
		s.pending = nil
		s.lastGuess = nil
		s.winnerID = ""
		s.activeGuesserID = s.players[s.rng.IntN(len(s.players))].ID
		s.phase = PhasePlaying

		return nil
	})
}

// AdvancePrompt moves to the next prompt, wrapping and counting a cycle at
// the end of the list.
func (s *Session) AdvancePrompt() error {
	return s.update(s.advancePrompt)
}

func (s *Session) advancePrompt() error {
	if len(s.prompts) == 0 {
		return ErrNoPrompts
	}

	s.promptCursor++
	if s.promptCursor >= len(s.prompts) {
		s.promptCursor = 0
		s.cycleCount++
	}

	return nil
}

// ClaimGuess records the active guesser's claim about targetID's prompt.
//
// A wrong guess passes the turn to the target at once. A correct guess must
// be confirmed by the target through ConfirmPending before anything changes
// hands. Claims inside the guesser's own empire are rejected.
func (s *Session) ClaimGuess(guesserID, targetID string, outcome Outcome) error {
	if !outcome.Valid() {
		return ErrInvalidOutcome
	}

	return s.update(func() error {
		switch {
		case s.phase != PhasePlaying:
			return ErrNotPlaying
		case guesserID != s.activeGuesserID:
			return ErrNotYourTurn
		case s.pending != nil:
			return ErrGuessPending
		case guesserID == targetID:
			return ErrSelfGuess
		}

		guesser, target := s.playerByID(guesserID), s.playerByID(targetID)
		if guesser == nil || target == nil {
			return ErrPlayerNotFound
		}

		if s.leaderOf(guesser) == s.leaderOf(target) {
			return ErrSameEmpire
		}

		if outcome == OutcomeWrong {
			s.activeGuesserID = targetID

			return nil
		}

		s.pending = &PendingGuess{
			ID:             NewID(),
			GuesserID:      guesserID,
			TargetID:       targetID,
			ClaimedOutcome: outcome,
			Status:         GuessPending,
			CreatedAt:      s.now(),
		}

		return nil
	})
}

// ConfirmPending lets the accused target accept or deny the pending claim.
func (s *Session) ConfirmPending(respondingPlayerID string, confirm bool) error {
	return s.update(func() error {
		if s.phase != PhasePlaying {
			return ErrNotPlaying
		}

		guess := s.pending
		if guess == nil || guess.Status != GuessPending {
			return ErrNoPendingGuess
		}

		if respondingPlayerID != guess.TargetID {
			return ErrNotTarget
		}

		if confirm {
			guess.Status = GuessConfirmed
			s.absorb(s.leaderOf(s.playerByID(guess.GuesserID)).ID, guess.TargetID)
			s.checkWinner()

			if s.autoAdvance {
				_ = s.advancePrompt()
			}
		} else {
			guess.Status = GuessDenied
			s.activeGuesserID = guess.TargetID
		}

		s.pending = nil
		s.lastGuess = guess

		return nil
	})
}

// CancelPending withdraws the pending claim without moving the turn.
func (s *Session) CancelPending() error {
	return s.update(func() error {
		if s.pending == nil {
			return ErrNoPendingGuess
		}

		s.pending.Status = GuessCancelled
		s.lastGuess = s.pending
		s.pending = nil

		return nil
	})
}

// PassTurn hands the turn to playerID directly.
func (s *Session) PassTurn(playerID string) error {
	return s.update(func() error {
		switch {
		case s.phase != PhasePlaying:
			return ErrNotPlaying
		case s.pending != nil:
			return ErrGuessPending
		case s.playerByID(playerID) == nil:
			return ErrPlayerNotFound
		}

		s.activeGuesserID = playerID

		return nil
	})
}

// SetAutoAdvance controls whether confirmed guesses move to the next prompt.
func (s *Session) SetAutoAdvance(enabled bool) {
	_ = s.update(func() error {
		s.autoAdvance = enabled

		return nil
	})
}

// Reset returns the session to the lobby, keeping the roster and names.
func (s *Session) Reset() {
	_ = s.update(func() error {
		for _, p := range s.players {
			p.LeaderID = ""
			p.SubmittedPrompt = ""
		}

		s.prompts = nil
		s.promptCursor = 0
		s.cycleCount = 0
		s.pending = nil
		s.lastGuess = nil
		s.activeGuesserID = ""
		s.winnerID = ""
		s.phase = PhaseLobby
		s.autoAdvance = true

		return nil
	})
}

// absorb moves target and everyone already under target directly beneath
// leaderID, which keeps every empire one level deep. leaderID must be
// independent and must not be target.
func (s *Session) absorb(leaderID, targetID string) {
	if leaderID == targetID {
		return
	}

	for _, p := range s.players {
		if p.ID == targetID || p.LeaderID == targetID {
			p.LeaderID = leaderID
		}
	}
}

// leaderOf returns the head of p's empire. A follower that wins a guess
// wins it for their leader.
func (s *Session) leaderOf(p *Player) *Player {
	if p.LeaderID == "" {
		return p
	}

	if leader := s.playerByID(p.LeaderID); leader != nil {
		return leader
	}

	return p
}

func (s *Session) checkWinner() {
	var leader *Player

	for _, p := range s.players {
		if p.LeaderID != "" {
			continue
		}
		if leader != nil {
			return
		}
		leader = p
	}

	if leader == nil {
		return
	}

	s.winnerID = leader.ID
	s.phase = PhaseFinished
}

func (s *Session) playerByID(id string) *Player {
	if id == "" {
		return nil
	}

	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}

	return nil
}

func (s *Session) playerByToken(token string) *Player {
	if token == "" {
		return nil
	}

	for _, p := range s.players {
		if p.DeviceToken == token {
			return p
		}
	}

	return nil
}
