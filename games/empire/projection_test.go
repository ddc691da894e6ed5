/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package empire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectLobby(t *testing.T) {
	s, players := setupSession(t, "Alice", "Bob")
	require.NoError(t, s.SubmitPrompt(players[0].ID, "a secret"))

	v := s.Project(players[1].DeviceToken, false)

	assert.Equal(t, s.Code(), v.Code)
	assert.Equal(t, PhaseLobby, v.Phase)
	assert.Empty(t, v.ActiveGuesserID)
	assert.Equal(t, players[1].ID, v.YourPlayerID)
	assert.True(t, v.AutoAdvancePrompts)
	assert.Zero(t, v.TotalPrompts)
	assert.Empty(t, v.CurrentPrompt)
	assert.False(t, v.PromptVisible)

	require.Len(t, v.Players, 2)
	assert.Equal(t, PlayerView{ID: players[0].ID, Name: "Alice", PromptSubmitted: true}, v.Players[0])
	assert.Equal(t, PlayerView{ID: players[1].ID, Name: "Bob"}, v.Players[1])
}

func TestProjectNeverLeaksSecrets(t *testing.T) {
	s, players := setupPlaying(t, "Alice", "Bob")

	for _, tv := range []bool{false, true} {
		raw, err := json.Marshal(s.Project("", tv))
		require.NoError(t, err)

		for _, p := range players {
			assert.NotContains(t, string(raw), p.DeviceToken)
		}
		assert.NotContains(t, string(raw), s.HostSecret())
	}

	raw, err := json.Marshal(s.Project(players[0].DeviceToken, false))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "prompt of")
}

func TestProjectUnknownViewer(t *testing.T) {
	s, _ := setupSession(t, "Alice")

	assert.Empty(t, s.Project("stranger", false).YourPlayerID)
	assert.Empty(t, s.Project("", false).YourPlayerID)
}

func TestProjectSharedDisplayPrompt(t *testing.T) {
	s, players := setupPlaying(t, "Alice", "Bob")
	st := s.State()

	tv := s.Project("", true)
	assert.True(t, tv.PromptVisible)
	assert.Equal(t, st.Prompts[0].Text, tv.CurrentPrompt)
	assert.Equal(t, 2, tv.TotalPrompts)

	phone := s.Project(players[0].DeviceToken, false)
	assert.False(t, phone.PromptVisible)
	assert.Empty(t, phone.CurrentPrompt)

	require.NoError(t, s.AdvancePrompt())
	assert.Equal(t, st.Prompts[1].Text, s.Project("", true).CurrentPrompt)
}

func TestProjectHidesPromptsAfterTwoCycles(t *testing.T) {
	s, players := setupPlaying(t, "Alice", "Bob")

	for i := range 2 * len(players) {
		v := s.Project("", true)
		assert.False(t, v.PromptsHidden, "advance %d", i)
		assert.NotEqual(t, HiddenPromptText, v.CurrentPrompt)
		require.NoError(t, s.AdvancePrompt())
	}

	v := s.Project("", true)
	assert.Equal(t, 2, v.CycleCount)
	assert.True(t, v.PromptsHidden)
	assert.False(t, v.PromptVisible)
	assert.Equal(t, HiddenPromptText, v.CurrentPrompt)

	phone := s.Project(players[0].DeviceToken, false)
	assert.True(t, phone.PromptsHidden)
	assert.Empty(t, phone.CurrentPrompt)
}

func TestProjectNoPromptsOnSharedDisplay(t *testing.T) {
	s, _ := setupSession(t, "Alice")
	require.NoError(t, s.Start())

	v := s.Project("", true)
	assert.Empty(t, v.CurrentPrompt)
	assert.False(t, v.PromptVisible)
}

func TestProjectPendingAndWinner(t *testing.T) {
	s, players := setupPlaying(t, "Alice", "Bob")
	active := s.State().ActiveGuesserID
	target := otherThan(t, players, active)
	guesser, _ := s.State().Player(active)

	require.NoError(t, s.ClaimGuess(active, target.ID, OutcomeCorrect))

	v := s.Project("", false)
	require.NotNil(t, v.PendingGuess)
	assert.Equal(t, active, v.PendingGuess.GuesserID)
	assert.Equal(t, target.ID, v.PendingGuess.TargetID)
	assert.Equal(t, guesser.Name, v.PendingGuess.GuesserName)
	assert.Equal(t, target.Name, v.PendingGuess.TargetName)
	assert.Equal(t, OutcomeCorrect, v.PendingGuess.ClaimedOutcome)
	assert.Equal(t, GuessPending, v.PendingGuess.Status)
	assert.Empty(t, v.WinnerID)

	require.NoError(t, s.ConfirmPending(target.ID, true))

	v = s.Project("", false)
	assert.Nil(t, v.PendingGuess)
	require.NotNil(t, v.LastGuess)
	assert.Equal(t, GuessConfirmed, v.LastGuess.Status)
	assert.Equal(t, PhaseFinished, v.Phase)
	assert.Equal(t, active, v.WinnerID)
	assert.Equal(t, guesser.Name, v.WinnerName)

	for _, p := range v.Players {
		if p.ID == target.ID {
			assert.Equal(t, active, p.LeaderID)
		}
	}
}
