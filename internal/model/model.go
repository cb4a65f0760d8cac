// Package model defines the entity payload types stored in tidemark's
// datasets and their serialization codecs.
package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// DefaultMissingLabel names entities whose content has not arrived yet.
const DefaultMissingLabel = "missing file"

// Folder groups nodes under a display name.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Node is a titled text document.
type Node struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Resource is a named binary attachment.
type Resource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Blob []byte `json:"blob"`
}

// NewResource builds a Resource with a fresh identifier.
func NewResource(name string, blob []byte) Resource {
	return Resource{ID: uuid.NewString(), Name: name, Blob: blob}
}

// FolderCodec serializes folders as JSON. MissingLabel overrides the
// placeholder name; empty means DefaultMissingLabel.
type FolderCodec struct {
	MissingLabel string
}

func (c FolderCodec) Encode(f Folder) ([]byte, error) { return json.Marshal(f) }

func (c FolderCodec) Decode(b []byte) (Folder, error) {
	var f Folder
	err := json.Unmarshal(b, &f)
	return f, err
}

func (c FolderCodec) MissingPlaceholder(key string) Folder {
	return Folder{ID: key, Name: missingLabel(c.MissingLabel)}
}

// NodeCodec serializes nodes as JSON.
type NodeCodec struct {
	MissingLabel string
}

func (c NodeCodec) Encode(n Node) ([]byte, error) { return json.Marshal(n) }

func (c NodeCodec) Decode(b []byte) (Node, error) {
	var n Node
	err := json.Unmarshal(b, &n)
	return n, err
}

func (c NodeCodec) MissingPlaceholder(key string) Node {
	return Node{ID: key, Title: missingLabel(c.MissingLabel)}
}

// ResourceCodec serializes resources as JSON.
type ResourceCodec struct {
	MissingLabel string
}

func (c ResourceCodec) Encode(r Resource) ([]byte, error) { return json.Marshal(r) }

func (c ResourceCodec) Decode(b []byte) (Resource, error) {
	var r Resource
	err := json.Unmarshal(b, &r)
	return r, err
}

func (c ResourceCodec) MissingPlaceholder(key string) Resource {
	return Resource{ID: key, Name: missingLabel(c.MissingLabel)}
}

func missingLabel(label string) string {
	if label == "" {
		return DefaultMissingLabel
	}
	return label
}
