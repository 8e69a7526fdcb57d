package domain

// ConversationSummary is the derived view of a 1:1 thread. Conversations
// are never stored; they are computed from the message collection and keyed
// by the counterpart user.
type ConversationSummary struct {
	Counterpart *User    `json:"counterpart"`
	LastMessage *Message `json:"last_message"`
	UnreadCount int      `json:"unread_count"`
}

// GroupSummary pairs a group with its latest message and the caller's
// unread count.
type GroupSummary struct {
	Group       *Group   `json:"group"`
	LastMessage *Message `json:"last_message,omitempty"`
	UnreadCount int      `json:"unread_count"`
}
