package history

import "time"

const DefaultSource = "web"

// Conversation is the aggregate record holding the message history for one
// session/owner pair. Messages are stored as child rows and serialized as an
// embedded array; insertion order is chronological order.
type Conversation struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	SessionID string    `gorm:"type:varchar(128);index;not null" json:"sessionId"`
	UserID    string    `gorm:"type:varchar(128);not null;index:idx_conversations_owner_updated,priority:1" json:"userId"`
	Messages  []Message `gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE" json:"messages"`
	Metadata  Metadata  `gorm:"embedded" json:"metadata"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index:idx_conversations_owner_updated,priority:2" json:"updatedAt"`
}

func (Conversation) TableName() string { return "conversations" }

type Metadata struct {
	Source     string  `gorm:"column:meta_source;type:varchar(32);not null" json:"source"`
	AgentModel *string `gorm:"column:meta_agent_model;type:varchar(64)" json:"agentModel"`
}

// Message is one entry in a conversation. The autoincrement id preserves
// insertion order; it is not exposed on the wire.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	ConversationID string    `gorm:"size:26;index;not null" json:"-"`
	Role           string    `gorm:"type:varchar(16);not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Timestamp      time.Time `gorm:"not null" json:"timestamp"`
}

func (Message) TableName() string { return "conversation_messages" }
