// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// ActionType is the coarse intent detected for a user message.
type ActionType string

// Action type constants.
const (
	ActionTransaction ActionType = "Transaction"
	ActionQuestion    ActionType = "Question"
	ActionSocial      ActionType = "SocialMessage"
	ActionUnknown     ActionType = "UnknownMessage"
)

// ActionTypes lists every intent the classifier may return.
var ActionTypes = []ActionType{ActionTransaction, ActionQuestion, ActionSocial, ActionUnknown}

// Valid reports whether t is one of the known intents.
func (t ActionType) Valid() bool {
	switch t {
	case ActionTransaction, ActionQuestion, ActionSocial, ActionUnknown:
		return true
	default:
		return false
	}
}

// Action is the classification of a single user message together with the
// part of the message relevant to that intent.
type Action struct {
	Type    ActionType `json:"action_type"`
	Message string     `json:"message"`
}

// Validate checks that the action carries a known intent.
func (a Action) Validate() error {
	if !a.Type.Valid() {
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	return nil
}
