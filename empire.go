/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Seednode/empire/games/empire"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	playerCookieName = "empire_player_token"
	hostCookiePrefix = "empire_host_"

	deviceTokenHeader = "X-Device-Token"
	hostSecretHeader  = "X-Host-Secret"

	maxBodyBytes    = 4 << 10
	maxNameLength   = 64
	maxPromptLength = 280
)

var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

type createResponse struct {
	Code       string `json:"code"`
	HostSecret string `json:"hostSecret"`
}

type joinRequest struct {
	Name      string `json:"name"`
	NewDevice bool   `json:"newDevice"`
}

type joinResponse struct {
	PlayerID    string `json:"playerId"`
	DeviceToken string `json:"deviceToken"`
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

type claimRequest struct {
	TargetID string `json:"targetId"`
	Outcome  string `json:"outcome"`
}

type confirmRequest struct {
	Confirm bool `json:"confirm"`
}

type toggleRequest struct {
	Enabled bool `json:"enabled"`
}

type turnRequest struct {
	PlayerID string `json:"playerId"`
}

// empireServer is the HTTP face of the game registry. It resolves callers,
// enforces host privilege and announces every change; the rules themselves
// live in games/empire.
type empireServer struct {
	cfg      *Config
	registry *empire.Registry
	fanout   *Fanout
	notifier empire.Notifier
	journal  Journal
}

func newEmpireServer(cfg *Config, registry *empire.Registry, fanout *Fanout, journal Journal) *empireServer {
	if journal == nil {
		journal = nopJournal{}
	}

	return &empireServer{
		cfg:      cfg,
		registry: registry,
		fanout:   fanout,
		notifier: fanout,
		journal:  journal,
	}
}

func (e *empireServer) changed(s *empire.Session, action, actorID string, details map[string]any) {
	e.notifier.Notify(s.Code())
	e.journal.Record(ActionRecord{
		Code:    s.Code(),
		Action:  action,
		ActorID: actorID,
		Details: details,
	})

	if actorID == "" {
		actorID = "host"
	}
	logf(e.cfg, "GAMES: %s on %s by %s", action, s.Code(), actorID)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("request body required")
		}
		return badRequest("malformed request body")
	}
	return nil
}

func deviceToken(r *http.Request) string {
	if token := r.Header.Get(deviceTokenHeader); token != "" {
		return token
	}
	if c, err := r.Cookie(playerCookieName); err == nil {
		return c.Value
	}
	return ""
}

func hostSecret(r *http.Request, code string) string {
	if secret := r.Header.Get(hostSecretHeader); secret != "" {
		return secret
	}
	if c, err := r.Cookie(hostCookiePrefix + code); err == nil {
		return c.Value
	}
	return ""
}

func (e *empireServer) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     e.cfg.prefix + "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   e.cfg.scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

func (e *empireServer) serveCreate() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s, err := e.registry.Create()
		if err != nil {
			writeError(e.cfg, w, err)
			return
		}

		e.setCookie(w, hostCookiePrefix+s.Code(), s.HostSecret(), 7*24*time.Hour)

		e.journal.Record(ActionRecord{Code: s.Code(), Action: "create", Timestamp: s.CreatedAt().UnixMilli()})
		logf(e.cfg, "GAMES: Created game %s for %s", s.Code(), realIP(r))

		writeJSON(e.cfg, w, http.StatusOK, createResponse{
			Code:       s.Code(),
			HostSecret: s.HostSecret(),
		})
	}
}

func (e *empireServer) serveJoin() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, err := e.registry.Lookup(ps.ByName("code"))
		if err != nil {
			writeError(e.cfg, w, err)
			return
		}

		var req joinRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(e.cfg, w, err)
			return
		}

		name := strings.TrimSpace(req.Name)
		switch {
		case name == "":
			writeError(e.cfg, w, badRequest("name required"))
			return
		case utf8.RuneCountInString(name) > maxNameLength:
			writeError(e.cfg, w, badRequest("name must be at most %d characters", maxNameLength))
			return
		}

		token := ""
		if !req.NewDevice {
			token = deviceToken(r)
		}

		p, err := s.AddOrReconnectPlayer(name, token)
		if err != nil {
			writeError(e.cfg, w, err)
			return
		}

		e.setCookie(w, playerCookieName, p.DeviceToken, 30*24*time.Hour)
		e.changed(s, "join", p.ID, map[string]any{"name": p.Name})

		writeJSON(e.cfg, w, http.StatusOK, joinResponse{
			PlayerID:    p.ID,
			DeviceToken: p.DeviceToken,
		})
	}
}

// playerAction runs fn as the player identified by the caller's device token.
func (e *empireServer) playerAction(action string, fn func(s *empire.Session, p empire.Player, r *http.Request) (map[string]any, error)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, err := e.registry.Lookup(ps.ByName("code"))
		if err != nil {
			writeError(e.cfg, w, err)
			return
		}

		p, ok := s.FindPlayerByToken(deviceToken(r))
		if !ok {
			writeError(e.cfg, w, errMissingPlayer)
			return
		}

		details, err := fn(s, p, r)
		if err != nil {
			writeError(e.cfg, w, err)
			return
		}

		e.changed(s, action, p.ID, details)
		writeOK(e.cfg, w)
	}
}

// hostAction runs fn only for callers presenting the game's host secret.
func (e *empireServer) hostAction(action string, fn func(s *empire.Session, r *http.Request) (map[string]any, error)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, err := e.registry.Lookup(ps.ByName("code"))
		if err != nil {
			writeError(e.cfg, w, err)
			return
		}

		if !s.IsHost(hostSecret(r, s.Code())) {
			writeError(e.cfg, w, empire.ErrNotHost)
			return
		}

		details, err := fn(s, r)
		if err != nil {
			writeError(e.cfg, w, err)
			return
		}

		e.changed(s, action, "", details)
		writeOK(e.cfg, w)
	}
}

func submitPrompt(s *empire.Session, p empire.Player, r *http.Request) (map[string]any, error) {
	var req promptRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	prompt := strings.TrimSpace(req.Prompt)
	switch {
	case prompt == "":
		return nil, badRequest("prompt required")
	case utf8.RuneCountInString(prompt) > maxPromptLength:
		return nil, badRequest("prompt must be at most %d characters", maxPromptLength)
	}

	return nil, s.SubmitPrompt(p.ID, prompt)
}

func parseOutcome(s string) (empire.Outcome, bool) {
	for _, o := range []empire.Outcome{empire.OutcomeCorrect, empire.OutcomeWrong} {
		if strings.EqualFold(s, string(o)) {
			return o, true
		}
	}
	return "", false
}

func claimGuess(s *empire.Session, p empire.Player, r *http.Request) (map[string]any, error) {
	var req claimRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	outcome, ok := parseOutcome(req.Outcome)
	if !ok {
		return nil, badRequest("outcome must be Correct or Wrong")
	}

	if err := s.ClaimGuess(p.ID, req.TargetID, outcome); err != nil {
		return nil, err
	}

	return map[string]any{"target_id": req.TargetID, "outcome": outcome}, nil
}

func confirmGuess(s *empire.Session, p empire.Player, r *http.Request) (map[string]any, error) {
	var req confirmRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	if err := s.ConfirmPending(p.ID, req.Confirm); err != nil {
		return nil, err
	}

	return map[string]any{"confirm": req.Confirm}, nil
}

func startGame(s *empire.Session, _ *http.Request) (map[string]any, error) {
	return nil, s.Start()
}

func nextPrompt(s *empire.Session, _ *http.Request) (map[string]any, error) {
	return nil, s.AdvancePrompt()
}

func toggleAuto(s *empire.Session, r *http.Request) (map[string]any, error) {
	var req toggleRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	s.SetAutoAdvance(req.Enabled)

	return map[string]any{"enabled": req.Enabled}, nil
}

func resetGame(s *empire.Session, _ *http.Request) (map[string]any, error) {
	s.Reset()
	return nil, nil
}

func cancelGuess(s *empire.Session, _ *http.Request) (map[string]any, error) {
	return nil, s.CancelPending()
}

func passTurn(s *empire.Session, r *http.Request) (map[string]any, error) {
	var req turnRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}

	if err := s.PassTurn(req.PlayerID); err != nil {
		return nil, err
	}

	return map[string]any{"player_id": req.PlayerID}, nil
}

func (e *empireServer) serveState() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, err := e.registry.Lookup(ps.ByName("code"))
		if err != nil {
			writeError(e.cfg, w, err)
			return
		}

		tv := r.URL.Query().Get("tv")
		sharedDisplay := tv == "1" || strings.EqualFold(tv, "true")

		writeJSON(e.cfg, w, http.StatusOK, s.Project(deviceToken(r), sharedDisplay))
	}
}

// requestScheme trusts X-Forwarded-Proto only when it names http or https.
func requestScheme(r *http.Request) string {
	switch proto := strings.ToLower(r.Header.Get("X-Forwarded-Proto")); proto {
	case "http", "https":
		return proto
	}

	if r.TLS != nil {
		return "https"
	}

	return "http"
}

// joinURL is the address a scanned QR code opens.
func joinURL(cfg *Config, r *http.Request, code string) string {
	return requestScheme(r) + "://" + r.Host + cfg.prefix + "/?code=" + code
}

// serveQR renders a PNG QR code pointing players at the game.
func (e *empireServer) serveQR() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		s, err := e.registry.Lookup(ps.ByName("code"))
		if err != nil {
			writeError(e.cfg, w, err)
			return
		}

		url := joinURL(e.cfg, r, s.Code())

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			writeError(e.cfg, w, fmt.Errorf("qr generation failed: %w", err))
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(e.cfg, w)

		_, _ = w.Write(png)
	}
}

// registerEmpireGame sets up routes so that:
//   - POST $path               → creates a game and returns its code and host secret
//   - GET  $path/:code/state   → read projection (?tv=1 for the shared display)
//   - GET  $path/:code/ws      → websocket of change notifications
//   - GET  $path/:code/qr      → PNG QR code for joining
//   - POST $path/:code/...     → player and host actions
func registerEmpireGame(cfg *Config, path string, mux *httprouter.Router, e *empireServer) {
	base := cfg.prefix + path

	mux.POST(base, e.serveCreate())

	mux.GET(base+"/:code/state", e.serveState())
	mux.GET(base+"/:code/ws", serveWS(cfg, e.registry, e.fanout))
	mux.GET(base+"/:code/qr", e.serveQR())

	mux.POST(base+"/:code/join", e.serveJoin())
	mux.POST(base+"/:code/prompt", e.playerAction("prompt", submitPrompt))
	mux.POST(base+"/:code/claim", e.playerAction("claim", claimGuess))
	mux.POST(base+"/:code/confirm", e.playerAction("confirm", confirmGuess))

	mux.POST(base+"/:code/start", e.hostAction("start", startGame))
	mux.POST(base+"/:code/next", e.hostAction("next", nextPrompt))
	mux.POST(base+"/:code/auto", e.hostAction("auto", toggleAuto))
	mux.POST(base+"/:code/reset", e.hostAction("reset", resetGame))
	mux.POST(base+"/:code/cancel", e.hostAction("cancel", cancelGuess))
	mux.POST(base+"/:code/turn", e.hostAction("turn", passTurn))
}
