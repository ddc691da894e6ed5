/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package empire

// State is a deep copy of a session taken in one critical section. Nothing in
// it aliases the live session.
type State struct {
	Code            string
	Phase           Phase
	Players         []Player
	Prompts         []Prompt
	PromptCursor    int
	CycleCount      int
	ActiveGuesserID string
	Pending         *PendingGuess
	LastGuess       *PendingGuess
	WinnerID        string
	AutoAdvance     bool
}

// State copies the current session state.
func (s *Session) State() State {
	var st State

	s.read(func() {
		st = State{
			Code:            s.code,
			Phase:           s.phase,
			Players:         make([]Player, len(s.players)),
			Prompts:         make([]Prompt, len(s.prompts)),
			PromptCursor:    s.promptCursor,
			CycleCount:      s.cycleCount,
			ActiveGuesserID: s.activeGuesserID,
			WinnerID:        s.winnerID,
			AutoAdvance:     s.autoAdvance,
		}

		for i, p := range s.players {
			st.Players[i] = *p
		}
		copy(st.Prompts, s.prompts)

		if s.pending != nil {
			pending := *s.pending
			st.Pending = &pending
		}
		if s.lastGuess != nil {
			last := *s.lastGuess
			st.LastGuess = &last
		}
	})

	return st
}

// PromptsHidden reports whether the shared display has stopped showing
// prompt text.
func (st State) PromptsHidden() bool {
	return st.CycleCount >= PromptsHiddenAfter
}

// Player looks up a player in the snapshot.
func (st State) Player(id string) (Player, bool) {
	for _, p := range st.Players {
		if p.ID == id {
			return p, true
		}
	}

	return Player{}, false
}

// Leaders returns the players still leading their own empire.
func (st State) Leaders() []Player {
	leaders := make([]Player, 0, len(st.Players))
	for _, p := range st.Players {
		if p.Independent() {
			leaders = append(leaders, p)
		}
	}

	return leaders
}
