/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Seednode/empire/games/empire"
	"github.com/julienschmidt/httprouter"
)

// homePage describes the API for whoever opens the server in a browser,
// including players who scanned a join QR code.
func homePage(cfg *Config, code string) string {
	base := html.EscapeString(cfg.prefix + "/empire")

	var body strings.Builder

	body.WriteString(`<h1>Empire</h1>`)
	if code != "" {
		body.WriteString(`<p>Joining game <strong>` + html.EscapeString(code) + `</strong>. `)
		body.WriteString(`POST <code>{"name": "..."}</code> to <code>` + base + `/` + html.EscapeString(code) + `/join</code>.</p>`)
	}
	body.WriteString(`<p>POST <code>` + base + `</code> to start a new game.</p>`)
	body.WriteString(`<p>Watch <code>` + base + `/CODE/state?tv=1</code> on the shared screen `)
	body.WriteString(`and subscribe to <code>` + base + `/CODE/ws</code> for updates.</p>`)

	return body.String()
}

func serveHomePage(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		code := empire.NormalizeCode(r.URL.Query().Get("code"))
		if len(code) != empire.CodeLength {
			code = ""
		}

		var page strings.Builder

		page.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
		page.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		page.WriteString(`<title>Empire</title></head><body>`)
		page.WriteString(homePage(cfg, code))
		page.WriteString(`</body></html>`)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(page.Len()))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(page.String()))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: *
Disallow: /empire/`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
