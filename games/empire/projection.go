/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package empire

// HiddenPromptText replaces the prompt on the shared display once prompts
// are hidden.
const HiddenPromptText = "PROMPT HIDDEN"

// PlayerView is the public face of a player. Device tokens and prompt text
// never leave the server.
type PlayerView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	LeaderID        string `json:"leaderId,omitempty"`
	PromptSubmitted bool   `json:"promptSubmitted"`
}

// GuessView describes a pending or just-resolved guess.
type GuessView struct {
	ID             string      `json:"id"`
	GuesserID      string      `json:"guesserId"`
	TargetID       string      `json:"targetId"`
	GuesserName    string      `json:"guesserName"`
	TargetName     string      `json:"targetName"`
	ClaimedOutcome Outcome     `json:"claimedOutcome"`
	Status         GuessStatus `json:"status"`
}

// View is the client-safe projection of a session.
type View struct {
	Code               string       `json:"code"`
	Phase              Phase        `json:"phase"`
	ActiveGuesserID    string       `json:"activeGuesserId,omitempty"`
	Players            []PlayerView `json:"players"`
	PromptIndex        int          `json:"promptIndex"`
	TotalPrompts       int          `json:"totalPrompts"`
	CycleCount         int          `json:"cycleCount"`
	PromptsHidden      bool         `json:"promptsHidden"`
	CurrentPrompt      string       `json:"currentPrompt,omitempty"`
	PromptVisible      bool         `json:"promptVisible"`
	PendingGuess       *GuessView   `json:"pendingGuess,omitempty"`
	LastGuess          *GuessView   `json:"lastGuess,omitempty"`
	WinnerID           string       `json:"winnerId,omitempty"`
	WinnerName         string       `json:"winnerName,omitempty"`
	YourPlayerID       string       `json:"yourPlayerId,omitempty"`
	AutoAdvancePrompts bool         `json:"autoAdvancePrompts"`
}

// Project builds the view for one viewer. viewerToken is the caller's
// device token, if any. sharedDisplay marks the TV screen, the only viewer
// that is ever shown prompt text.
func (s *Session) Project(viewerToken string, sharedDisplay bool) View {
	return s.State().Project(viewerToken, sharedDisplay)
}

// Project builds a view from an existing snapshot.
func (st State) Project(viewerToken string, sharedDisplay bool) View {
	v := View{
		Code:               st.Code,
		Phase:              st.Phase,
		ActiveGuesserID:    st.ActiveGuesserID,
		Players:            make([]PlayerView, 0, len(st.Players)),
		PromptIndex:        st.PromptCursor,
		TotalPrompts:       len(st.Prompts),
		CycleCount:         st.CycleCount,
		PromptsHidden:      st.PromptsHidden(),
		WinnerID:           st.WinnerID,
		AutoAdvancePrompts: st.AutoAdvance,
	}

	for _, p := range st.Players {
		v.Players = append(v.Players, PlayerView{
			ID:              p.ID,
			Name:            p.Name,
			LeaderID:        p.LeaderID,
			PromptSubmitted: p.SubmittedPrompt != "",
		})

		if viewerToken != "" && p.DeviceToken == viewerToken {
			v.YourPlayerID = p.ID
		}
	}

	if sharedDisplay && v.TotalPrompts > 0 {
		v.PromptVisible = !v.PromptsHidden
		if v.PromptVisible {
			v.CurrentPrompt = st.Prompts[st.PromptCursor].Text
		} else {
			v.CurrentPrompt = HiddenPromptText
		}
	}

	v.PendingGuess = st.guessView(st.Pending)
	v.LastGuess = st.guessView(st.LastGuess)

	if winner, ok := st.Player(st.WinnerID); ok {
		v.WinnerName = winner.Name
	}

	return v
}

func (st State) guessView(g *PendingGuess) *GuessView {
	if g == nil {
		return nil
	}

	gv := &GuessView{
		ID:             g.ID,
		GuesserID:      g.GuesserID,
		TargetID:       g.TargetID,
		ClaimedOutcome: g.ClaimedOutcome,
		Status:         g.Status,
	}
	if p, ok := st.Player(g.GuesserID); ok {
		gv.GuesserName = p.Name
	}
	if p, ok := st.Player(g.TargetID); ok {
		gv.TargetName = p.Name
	}

	return gv
}
