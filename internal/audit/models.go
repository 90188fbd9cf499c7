package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"refguard/internal/reference"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/platform/sentinel"
)

// ParentKind names the local entity kinds an audit record can attach to.
type ParentKind string

const (
	ParentMessage      ParentKind = "message"
	ParentNotification ParentKind = "notification"
	ParentIncident     ParentKind = "incident"
)

// Parent is the single entity an audit record belongs to. The set of
// implementations is closed: MessageParent, NotificationParent, IncidentParent.
type Parent interface {
	Kind() ParentKind
	ID() string
	isParent()
}

type MessageParent string

func (p MessageParent) Kind() ParentKind { return ParentMessage }
func (p MessageParent) ID() string       { return string(p) }
func (MessageParent) isParent()          {}

type NotificationParent string

func (p NotificationParent) Kind() ParentKind { return ParentNotification }
func (p NotificationParent) ID() string       { return string(p) }
func (NotificationParent) isParent()          {}

type IncidentParent string

func (p IncidentParent) Kind() ParentKind { return ParentIncident }
func (p IncidentParent) ID() string       { return string(p) }
func (IncidentParent) isParent()          {}

// ParentOf rebuilds a parent from its persisted kind and id.
func ParentOf(kind ParentKind, id string) (Parent, error) {
	if id == "" {
		return nil, contractViolation("parent id is required")
	}
	switch kind {
	case ParentMessage:
		return MessageParent(id), nil
	case ParentNotification:
		return NotificationParent(id), nil
	case ParentIncident:
		return IncidentParent(id), nil
	default:
		return nil, contractViolation(fmt.Sprintf("unknown parent kind %q", kind))
	}
}

// Record is one immutable state transition.
type Record struct {
	ID         uuid.UUID
	CreatedAt  time.Time
	Detail     string
	PriorState reference.Reference
	NewState   reference.Reference
	Parent     Parent
}

// Store persists audit records. Records are never updated; DeleteByParent
// exists only for cascade deletion of the parent entity.
type Store interface {
	Append(ctx context.Context, record Record) error
	ListByParent(ctx context.Context, parent Parent) ([]Record, error)
	DeleteByParent(ctx context.Context, parent Parent) (int, error)
}

func contractViolation(msg string) error {
	return dErrors.Wrap(sentinel.ErrContractViolation, dErrors.CodeContractViolation, msg)
}
