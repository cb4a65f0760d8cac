// Package identity manages the node's persistent author keypair. Every
// local write to a document log is attributed to this identity.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	pebblestore "github.com/seaward/tidemark/internal/storage/pebble"
)

var authorKey = []byte("meta/author")

// Identity is an ed25519 author keypair.
type Identity struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// Load returns the node identity, generating and persisting one on first
// use.
func Load(db *pebblestore.DB) (*Identity, error) {
	b, err := db.Get(authorKey)
	switch {
	case err == nil:
		if len(b) != ed25519.SeedSize {
			return nil, fmt.Errorf("identity: stored seed has %d bytes, want %d", len(b), ed25519.SeedSize)
		}
		priv := ed25519.NewKeyFromSeed(b)
		return &Identity{pub: priv.Public().(ed25519.PublicKey), priv: priv}, nil
	case errors.Is(err, pebblestore.ErrNotFound):
		seed := make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("identity: generate seed: %w", err)
		}
		if err := db.Set(authorKey, seed); err != nil {
			return nil, fmt.Errorf("identity: persist seed: %w", err)
		}
		priv := ed25519.NewKeyFromSeed(seed)
		return &Identity{pub: priv.Public().(ed25519.PublicKey), priv: priv}, nil
	default:
		return nil, err
	}
}

// ID returns the hex-encoded public key, used as the author string on
// log entries.
func (i *Identity) ID() string { return hex.EncodeToString(i.pub) }

// Sign signs msg with the author's private key.
func (i *Identity) Sign(msg []byte) []byte { return ed25519.Sign(i.priv, msg) }

// Verify reports whether sig is a valid signature of msg by the author.
func (i *Identity) Verify(msg, sig []byte) bool { return ed25519.Verify(i.pub, msg, sig) }
