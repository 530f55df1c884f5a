// Package model holds the live prop values edited through the panel. The store
// is a small reducer: callers read with GetValue and write only by dispatching
// an Action, most often the one built by UpdateProp. Subscribers are notified
// after every dispatch so the dev server can push model changes to connected
// browsers.
package model
