// Package reference defines logical references: identifiers stored by one
// service that name an entity owned by another service, with no database
// constraint enforcing that the entity exists.
package reference

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Kind names the remote service that owns a referenced entity.
type Kind string

const (
	KindState   Kind = "state"
	KindAddress Kind = "address"
	KindUser    Kind = "user"
	KindPhoto   Kind = "photo"
)

// ErrMissingID is returned when an operation needs a non-null identifier.
var ErrMissingID = errors.New("missing reference")

// ID is a remote identifier in canonical string form. Integer identifiers are
// carried as their decimal representation. The zero ID is the null reference.
type ID string

// IntID builds an ID from an integer identifier.
func IntID(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// IsZero reports whether the ID is null.
func (id ID) IsZero() bool { return id == "" }

func (id ID) String() string { return string(id) }

// Int64 returns the integer value of a numeric ID.
func (id ID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id: unsupported value %s", b)
	}
	*id = ID(n.String())
	return nil
}

// Reference is a logical foreign key: an identifier plus the kind of the
// service that owns it. Fallback marks identifiers synthesized while the
// owning service could not be consulted.
type Reference struct {
	Kind     Kind `json:"kind"`
	ID       ID   `json:"id"`
	Fallback bool `json:"fallback,omitempty"`
}

// New builds a verified-at-source reference.
func New(kind Kind, id ID) Reference {
	return Reference{Kind: kind, ID: id}
}

// IsZero reports whether the reference carries no identifier.
func (r Reference) IsZero() bool { return r.ID.IsZero() }

func (r Reference) String() string {
	return string(r.Kind) + ":" + string(r.ID)
}

// Descriptor is the minimal shape a peer returns for an entity. It is only
// held for the duration of a validation or resolution call.
type Descriptor struct {
	Kind       Kind
	ID         ID
	Name       string
	URL        string
	Latitude   *float64
	Longitude  *float64
	Attributes map[string]any
}

// Reference returns a reference to the described entity.
func (d Descriptor) Reference() Reference {
	return Reference{Kind: d.Kind, ID: d.ID}
}
