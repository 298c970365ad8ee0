package contour

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Document is the exported form of a contour.
type Document struct {
	ID       uuid.UUID `json:"id"`
	Created  time.Time `json:"created"`
	Closed   bool      `json:"closed"`
	Length   float64   `json:"length"`
	Vertices []Vertex  `json:"vertices"`
}

// NewDocument snapshots c under a fresh random ID.
func NewDocument(c *Contour) Document {
	return Document{
		ID:       uuid.New(),
		Created:  time.Now().UTC(),
		Closed:   c.IsClosed(),
		Length:   c.Length(),
		Vertices: c.Vertices(),
	}
}

// Contour rebuilds a Contour from the document.
func (d Document) Contour() *Contour {
	c := &Contour{vertices: make([]Vertex, len(d.Vertices)), closed: d.Closed}
	copy(c.vertices, d.Vertices)
	return c
}

// WriteJSON encodes the document as indented JSON.
func (d Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("failed to encode contour %s: %w", d.ID, err)
	}
	return nil
}

// ReadJSON decodes a document written by WriteJSON.
func ReadJSON(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("failed to decode contour: %w", err)
	}
	if d.ID == uuid.Nil {
		return Document{}, fmt.Errorf("failed to decode contour: missing id")
	}
	return d, nil
}
