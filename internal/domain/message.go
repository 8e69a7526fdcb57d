package domain

import "time"

// ReadReceipt records that a group member has seen a message.
type ReadReceipt struct {
	UserID string    `bson:"user_id" json:"user_id"`
	ReadAt time.Time `bson:"read_at" json:"read_at"`
}

// Message is a direct or group message. Exactly one of ReceiverID and
// GroupID is set. Content and CreatedAt are immutable after insert; only
// the read-state fields (IsRead for direct, ReadBy for group) change.
type Message struct {
	ID         string        `bson:"_id" json:"id"`
	SenderID   string        `bson:"sender_id" json:"sender_id"`
	ReceiverID string        `bson:"receiver_id,omitempty" json:"receiver_id,omitempty"`
	GroupID    string        `bson:"group_id,omitempty" json:"group_id,omitempty"`
	Content    string        `bson:"content" json:"content"`
	IsRead     bool          `bson:"is_read" json:"is_read"`
	ReadBy     []ReadReceipt `bson:"read_by,omitempty" json:"read_by,omitempty"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`

	// Sender and GroupName are populated on responses, never stored.
	Sender    *User  `bson:"-" json:"sender,omitempty"`
	GroupName string `bson:"-" json:"group_name,omitempty"`
}

// IsGroup reports whether the message belongs to a group thread.
func (m *Message) IsGroup() bool { return m.GroupID != "" }

// ReadByUser reports whether userID already has a read receipt.
func (m *Message) ReadByUser(userID string) bool {
	for _, r := range m.ReadBy {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
