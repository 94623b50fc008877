// Package ui implements the terminal interface: a Bubble Tea model owning a
// closed set of views (menu, phonebook, device info, messages, compose,
// error), a single modal slot, a bounded notification list and the action
// queue that sequences state changes from background producers.
package ui
