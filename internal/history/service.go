package history

import (
	"context"

	"github.com/chatbridge/gateway/internal/apperr"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// Service sits between the HTTP controller and the repository. It applies
// creation defaults, computes pagination metadata, and is the sole place an
// absent repository result becomes a NotFound error.
type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	SessionID string
	UserID    string
	Messages  []Message
	Metadata  *Metadata
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type ListResult struct {
	Conversations []Conversation `json:"conversations"`
	Pagination    Pagination     `json:"pagination"`
}

func (s *Service) CreateConversation(ctx context.Context, in CreateInput) (*Conversation, error) {
	c := &Conversation{
		SessionID: in.SessionID,
		UserID:    in.UserID,
		Messages:  in.Messages,
	}
	if in.Metadata != nil {
		c.Metadata = *in.Metadata
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListConversations(ctx context.Context, userID string, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	convs, total, err := s.repo.FindByOwner(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResult{
		Conversations: convs,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (s *Service) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("conversation not found")
	}
	return c, nil
}

func (s *Service) AppendMessages(ctx context.Context, id string, messages []Message) (*Conversation, error) {
	c, err := s.repo.AppendMessages(ctx, id, messages)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("conversation not found")
	}
	return c, nil
}

// DeleteConversation removes the record wholesale and returns its last value.
func (s *Service) DeleteConversation(ctx context.Context, id string) (*Conversation, error) {
	c, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("conversation not found")
	}
	return c, nil
}
