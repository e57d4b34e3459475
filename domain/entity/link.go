package entity

import "time"

// Link associates an event with an entity for a given reason. The triple
// (event, entity, reason) is unique; re-linking is a no-op.
type Link struct {
	eventID   int64
	entityID  int64
	reason    string
	score     *float64
	createdAt time.Time
}

// NewLink creates a link without a score.
func NewLink(eventID, entityID int64, reason string) Link {
	return Link{eventID: eventID, entityID: entityID, reason: reason}
}

// ReconstructLink recreates a link from persistence.
func ReconstructLink(eventID, entityID int64, reason string, score *float64, createdAt time.Time) Link {
	return Link{eventID: eventID, entityID: entityID, reason: reason, score: score, createdAt: createdAt}
}

// EventID returns the linked event.
func (l Link) EventID() int64 { return l.eventID }

// EntityID returns the linked entity.
func (l Link) EntityID() int64 { return l.entityID }

// Reason returns the link reason, a provenance or a semantic label such as MENTIONS.
func (l Link) Reason() string { return l.reason }

// Score returns the link confidence if one was recorded.
func (l Link) Score() (float64, bool) {
	if l.score == nil {
		return 0, false
	}
	return *l.score, true
}

// CreatedAt returns when the link was first recorded.
func (l Link) CreatedAt() time.Time { return l.createdAt }

// WithScore returns a copy carrying a confidence score.
func (l Link) WithScore(score float64) Link {
	l.score = &score
	return l
}

// LinkedEntity is an entity as seen from one event.
type LinkedEntity struct {
	entity Entity
	reason string
	score  *float64
}

// NewLinkedEntity pairs an entity with the link that attached it.
func NewLinkedEntity(e Entity, reason string, score *float64) LinkedEntity {
	return LinkedEntity{entity: e, reason: reason, score: score}
}

// Entity returns the linked entity.
func (l LinkedEntity) Entity() Entity { return l.entity }

// Reason returns the link reason.
func (l LinkedEntity) Reason() string { return l.reason }

// Score returns the link confidence if one was recorded.
func (l LinkedEntity) Score() (float64, bool) {
	if l.score == nil {
		return 0, false
	}
	return *l.score, true
}
