package history

import (
	"context"
	"errors"
	"time"

	"github.com/chatbridge/gateway/internal/common"
	"gorm.io/gorm"
)

// Repo persists conversations. Absence is reported as a nil result, never an
// error; only store failures propagate.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func messageOrder(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// normalize keeps the wire contract: an empty history is [], never null.
func normalize(c *Conversation) {
	if c.Messages == nil {
		c.Messages = []Message{}
	}
}

func (r *Repo) prepare(c *Conversation, now time.Time) error {
	if c.ID == "" {
		id, err := common.NewULID()
		if err != nil {
			return err
		}
		c.ID = id
	}
	if c.Metadata.Source == "" {
		c.Metadata.Source = DefaultSource
	}
	if c.Messages == nil {
		c.Messages = []Message{}
	}
	for i := range c.Messages {
		c.Messages[i].ID = 0
		c.Messages[i].ConversationID = c.ID
		if c.Messages[i].Timestamp.IsZero() {
			c.Messages[i].Timestamp = now
		}
	}
	return nil
}

func (r *Repo) Create(ctx context.Context, c *Conversation) error {
	if err := r.prepare(c, time.Now()); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(c).Error
}

// CreateBatch persists several conversations in one insert.
func (r *Repo) CreateBatch(ctx context.Context, cs []*Conversation) error {
	if len(cs) == 0 {
		return nil
	}
	now := time.Now()
	for _, c := range cs {
		if err := r.prepare(c, now); err != nil {
			return err
		}
	}
	return r.db.WithContext(ctx).Create(&cs).Error
}

// FindByOwner returns the userID's conversations ordered by updated_at DESC
// (most recently active first), skipping (page-1)*limit records, plus the
// full matching count independent of pagination.
func (r *Repo) FindByOwner(ctx context.Context, userID string, page, limit int) ([]Conversation, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&Conversation{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var convs []Conversation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Messages", messageOrder).
		Find(&convs).Error; err != nil {
		return nil, 0, err
	}

	if convs == nil {
		convs = []Conversation{}
	}
	for i := range convs {
		normalize(&convs[i])
	}
	return convs, total, nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Conversation, error) {
	var c Conversation
	err := r.db.WithContext(ctx).
		Preload("Messages", messageOrder).
		First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	normalize(&c)
	return &c, nil
}

// AppendMessages adds newMessages to the conversation and refreshes
// updated_at in a single transaction. The message list is never read back
// before writing, so concurrent appenders cannot lose each other's rows.
// Returns nil when the id does not exist; no record is created in that case.
func (r *Repo) AppendMessages(ctx context.Context, id string, newMessages []Message) (*Conversation, error) {
	if len(newMessages) == 0 {
		return r.FindByID(ctx, id)
	}

	now := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Conversation{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
		for i := range newMessages {
			newMessages[i].ID = 0
			newMessages[i].ConversationID = id
			if newMessages[i].Timestamp.IsZero() {
				newMessages[i].Timestamp = now
			}
		}
		if err := tx.Create(&newMessages).Error; err != nil {
			return err
		}
		return tx.Model(&Conversation{}).
			Where("id = ?", id).
			Update("updated_at", now).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// DeleteByID removes the conversation and its messages, returning the last
// known value, or nil if it did not exist.
func (r *Repo) DeleteByID(ctx context.Context, id string) (*Conversation, error) {
	var out *Conversation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c Conversation
		if err := tx.Preload("Messages", messageOrder).First(&c, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&Message{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Conversation{}, "id = ?", id).Error; err != nil {
			return err
		}
		normalize(&c)
		out = &c
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of conversations matching an equality filter over
// column names; an empty filter counts every record.
func (r *Repo) Count(ctx context.Context, filter map[string]any) (int64, error) {
	q := r.db.WithContext(ctx).Model(&Conversation{})
	if len(filter) > 0 {
		q = q.Where(filter)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
