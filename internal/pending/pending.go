// Package pending keeps financial actions awaiting user confirmation.
package pending

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/plata/internal/model"
)

var (
	// ErrNotFound is returned for unknown, expired or already taken
	// pending actions.
	ErrNotFound = errors.New("pending action not found")
	// ErrStoreFull is returned when a bounded store refuses a new entry.
	ErrStoreFull = errors.New("pending store is full")
)

// DefaultTTL is how long an action waits for confirmation.
const DefaultTTL = 24 * time.Hour

// Store holds pending actions keyed by user and correlation id.
type Store interface {
	Save(ctx context.Context, userID, correlationID string, action model.FinancialAction) error
	// Take removes the action and returns it. Of several concurrent calls
	// for the same key at most one succeeds; the rest get ErrNotFound.
	Take(ctx context.Context, userID, correlationID string) (model.FinancialAction, error)
	Close() error
}

// CorrelationID identifies the index-th action extracted from a message.
// Message ids are unique per chat, so the pair is unique per pending action.
func CorrelationID(messageID string, index int) string {
	return messageID + ":" + strconv.Itoa(index)
}

// ParseCorrelationID splits an id built by CorrelationID.
func ParseCorrelationID(id string) (messageID string, index int, err error) {
	sep := strings.LastIndex(id, ":")
	if sep <= 0 || sep == len(id)-1 {
		return "", 0, fmt.Errorf("malformed correlation id %q", id)
	}
	index, err = strconv.Atoi(id[sep+1:])
	if err != nil || index < 0 {
		return "", 0, fmt.Errorf("malformed correlation id %q", id)
	}
	return id[:sep], index, nil
}

func storageKey(userID, correlationID string) string {
	return "plata:pending:" + userID + ":" + correlationID
}
