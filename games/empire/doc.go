/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package empire implements the game state for Empire, a party game in which
// every player submits a secret prompt and then players take turns guessing
// which prompt belongs to whom. A correct guess, confirmed by the player who
// was guessed, absorbs that player's whole empire into the guesser's. The last
// independent leader wins.
//
// A Registry owns the live sessions. A Session serialises every transition on
// its own lock, and Session.Project renders what a given viewer may see.
package empire
