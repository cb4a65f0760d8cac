// Package ticket encodes the information needed to join a shared dataset:
// which dataset it is, its identifier, and where to reach peers that hold
// it. Tickets travel as single copy-pasteable strings.
package ticket

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Prefix marks a tidemark ticket string.
const Prefix = "tm"

// ErrInvalidTicket is returned when a string cannot be parsed as a ticket.
var ErrInvalidTicket = errors.New("ticket: invalid ticket string")

// Ticket identifies a joinable dataset.
type Ticket struct {
	Dataset string   `json:"dataset"`
	ID      string   `json:"id"`
	Addrs   []string `json:"addrs,omitempty"`
}

// Encode serializes the ticket to its string form.
func (t Ticket) Encode() (string, error) {
	if t.Dataset == "" || t.ID == "" {
		return "", errors.New("ticket: dataset and id are required")
	}
	b, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return Prefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// Parse decodes a ticket string produced by Encode.
func Parse(s string) (Ticket, error) {
	if !strings.HasPrefix(s, Prefix) {
		return Ticket{}, fmt.Errorf("%w: missing %q prefix", ErrInvalidTicket, Prefix)
	}
	b, err := base64.RawURLEncoding.DecodeString(s[len(Prefix):])
	if err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	var t Ticket
	if err := json.Unmarshal(b, &t); err != nil {
		return Ticket{}, fmt.Errorf("%w: %v", ErrInvalidTicket, err)
	}
	if t.Dataset == "" || t.ID == "" {
		return Ticket{}, fmt.Errorf("%w: dataset and id are required", ErrInvalidTicket)
	}
	return t, nil
}
