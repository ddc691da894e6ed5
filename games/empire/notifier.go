/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package empire

// Notifier tells every viewer of a game that its state changed. Delivery is
// best effort and carries no payload; viewers refetch the projection.
type Notifier interface {
	Notify(code string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(code string)

func (f NotifierFunc) Notify(code string) {
	f(code)
}

// Notifiers fans a single change out to several notifiers.
type Notifiers []Notifier

func (n Notifiers) Notify(code string) {
	for _, notifier := range n {
		notifier.Notify(code)
	}
}
