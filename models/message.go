package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MessageActive   = "active"
	MessageArchived = "archived"
	MessageSpam     = "spam"
)

type ContactMessage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Subject     string             `bson:"subject" json:"subject"`
	Message     string             `bson:"message" json:"message"`
	SubmittedAt time.Time          `bson:"submittedAt" json:"submittedAt"`
	IsRead      bool               `bson:"isRead" json:"isRead"`
	Status      string             `bson:"status" json:"status"` // active, archived, spam
}

type MessagePatch struct {
	IsRead *bool   `bson:"isRead,omitempty" json:"isRead"`
	Status *string `bson:"status,omitempty" json:"status" binding:"omitnil,oneof=active archived spam"`
}

func (p MessagePatch) Empty() bool { return p.IsRead == nil && p.Status == nil }

func (p MessagePatch) Apply(m *ContactMessage) {
	if p.IsRead != nil {
		m.IsRead = *p.IsRead
	}
	setString(&m.Status, p.Status)
}

// MessageFilter is the inbox view. Read/unread only apply to active messages.
type MessageFilter string

const (
	MessagesAll      MessageFilter = "all"
	MessagesActive   MessageFilter = "active"
	MessagesUnread   MessageFilter = "unread"
	MessagesRead     MessageFilter = "read"
	MessagesArchived MessageFilter = "archived"
	MessagesSpam     MessageFilter = "spam"
)

var MessageFilters = []MessageFilter{
	MessagesAll, MessagesActive, MessagesUnread, MessagesRead, MessagesArchived, MessagesSpam,
}

func ParseMessageFilter(s string) (MessageFilter, bool) {
	if s == "" {
		return MessagesAll, true
	}
	for _, f := range MessageFilters {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

func (f MessageFilter) Match(m *ContactMessage) bool {
	switch f {
	case MessagesActive:
		return m.Status == MessageActive
	case MessagesUnread:
		return m.Status == MessageActive && !m.IsRead
	case MessagesRead:
		return m.Status == MessageActive && m.IsRead
	case MessagesArchived:
		return m.Status == MessageArchived
	case MessagesSpam:
		return m.Status == MessageSpam
	}
	return true
}
