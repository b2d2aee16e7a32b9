package realtime

import (
	"context"
	"sort"
	"sync"
	"time"

	"ripple-chat/internal/domain"
	ripple_errors "ripple-chat/pkg/errors"

	"github.com/google/uuid"
)

// Compact in-memory repositories backing the merge-layer tests.

type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]domain.Profile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[uuid.UUID]domain.Profile)}
}

func (r *memProfileRepo) add(username string) domain.Profile {
	p := domain.Profile{ID: uuid.New(), Username: username}
	r.mu.Lock()
	r.profiles[p.ID] = p
	r.mu.Unlock()
	return p
}

func (r *memProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = *p
	return nil
}

func (r *memProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return domain.Profile{}, ripple_errors.ErrNotFound
	}
	return p, nil
}

func (r *memProfileRepo) GetByUsername(ctx context.Context, username string) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return domain.Profile{}, ripple_errors.ErrNotFound
}

func (r *memProfileRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Profile
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProfileRepo) Search(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]domain.Profile, error) {
	return nil, nil
}

func (r *memProfileRepo) Update(ctx context.Context, p domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p
	return nil
}

func (r *memProfileRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}

type memConversationRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]domain.Conversation
	participants  []domain.Participant
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{conversations: make(map[uuid.UUID]domain.Conversation)}
}

func (r *memConversationRepo) addDirect(a, b uuid.UUID) uuid.UUID {
	conv := domain.Conversation{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.mu.Lock()
	r.conversations[conv.ID] = conv
	for _, pid := range []uuid.UUID{a, b} {
		r.participants = append(r.participants, domain.Participant{
			ID: uuid.New(), ConversationID: conv.ID, ProfileID: pid, CreatedAt: time.Now(),
		})
	}
	r.mu.Unlock()
	return conv.ID
}

func (r *memConversationRepo) Create(ctx context.Context, c *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[c.ID] = *c
	return nil
}

func (r *memConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok {
		return domain.Conversation{}, ripple_errors.ErrNotFound
	}
	for _, p := range r.participants {
		if p.ConversationID == id {
			c.Participants = append(c.Participants, p)
		}
	}
	return c, nil
}

func (r *memConversationRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Conversation, error) {
	var out []domain.Conversation
	for _, id := range ids {
		if c, err := r.GetByID(ctx, id); err == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memConversationRepo) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.conversations[id]; ok {
		c.UpdatedAt = at
		r.conversations[id] = c
	}
	return nil
}

func (r *memConversationRepo) AddParticipant(ctx context.Context, p *domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants = append(r.participants, *p)
	return nil
}

func (r *memConversationRepo) GetParticipants(ctx context.Context, conversationID uuid.UUID) ([]domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Participant
	for _, p := range r.participants {
		if p.ConversationID == conversationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memConversationRepo) ConversationIDsFor(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uuid.UUID
	for _, p := range r.participants {
		if p.ProfileID == profileID {
			out = append(out, p.ConversationID)
		}
	}
	return out, nil
}

func (r *memConversationRepo) ConversationIDsForIn(ctx context.Context, profileID uuid.UUID, candidates []uuid.UUID) ([]uuid.UUID, error) {
	ids, _ := r.ConversationIDsFor(ctx, profileID)
	candidateSet := make(map[uuid.UUID]bool, len(candidates))
	for _, id := range candidates {
		candidateSet[id] = true
	}
	var out []uuid.UUID
	for _, id := range ids {
		if candidateSet[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *memConversationRepo) IsParticipant(ctx context.Context, conversationID, profileID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.ConversationID == conversationID && p.ProfileID == profileID {
			return true, nil
		}
	}
	return false, nil
}

type memMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{}
}

func (r *memMessageRepo) Create(ctx context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *memMessageRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Message{}, ripple_errors.ErrNotFound
}

func (r *memMessageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memMessageRepo) LatestMessage(ctx context.Context, conversationID uuid.UUID) (domain.Message, error) {
	msgs, _ := r.ListByConversation(ctx, conversationID)
	if len(msgs) == 0 {
		return domain.Message{}, ripple_errors.ErrNotFound
	}
	return msgs[len(msgs)-1], nil
}

func (r *memMessageRepo) UnreadCount(ctx context.Context, conversationID, viewerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != viewerID && m.Status != domain.StatusRead {
			count++
		}
	}
	return count, nil
}

func (r *memMessageRepo) MarkConversationRead(ctx context.Context, conversationID, viewerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for i, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != viewerID && m.Status != domain.StatusRead {
			r.messages[i].Status = domain.StatusRead
			affected++
		}
	}
	return affected, nil
}

func (r *memMessageRepo) AdvanceStatus(ctx context.Context, messageID uuid.UUID, from, to domain.MessageStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID == messageID && m.Status == from {
			r.messages[i].Status = to
		}
	}
	return nil
}
