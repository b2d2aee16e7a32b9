package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ripple-chat/internal/domain"
	ripple_errors "ripple-chat/pkg/errors"

	"github.com/google/uuid"
)

// In-memory repository fakes. They mirror the behavior of the GORM
// implementations closely enough for service-level tests, including the
// status-predicated message updates.

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]domain.Profile
	failGet  bool
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]domain.Profile)}
}

func (r *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if existing.Username == p.Username {
			return ripple_errors.ErrAlreadyExists
		}
	}
	r.profiles[p.ID] = *p
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet {
		return domain.Profile{}, ripple_errors.ErrNotFound
	}
	p, ok := r.profiles[id]
	if !ok {
		return domain.Profile{}, ripple_errors.ErrNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) GetByUsername(ctx context.Context, username string) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.Username == username {
			return p, nil
		}
	}
	return domain.Profile{}, ripple_errors.ErrNotFound
}

func (r *fakeProfileRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error) {
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

func (r *fakeProfileRepo) Search(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	query = strings.ToLower(query)
	var out []domain.Profile
	for _, p := range r.profiles {
		if p.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(p.Username), query) ||
			strings.Contains(strings.ToLower(p.FullName.String), query) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, p domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return ripple_errors.ErrNotFound
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *fakeProfileRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return ripple_errors.ErrNotFound
	}
	p.Status = status
	r.profiles[id] = p
	return nil
}

func (r *fakeProfileRepo) add(username string) domain.Profile {
	p := domain.Profile{ID: uuid.New(), Username: username, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.mu.Lock()
	r.profiles[p.ID] = p
	r.mu.Unlock()
	return p
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]domain.Conversation
	participants  []domain.Participant
	failTouch     bool
	touched       []uuid.UUID
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{conversations: make(map[uuid.UUID]domain.Conversation)}
}

func (r *fakeConversationRepo) Create(ctx context.Context, c *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversations[c.ID] = *c
	return nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conversations[id]
	if !ok {
		return domain.Conversation{}, ripple_errors.ErrNotFound
	}
	c.Participants = r.participantsOf(id)
	return c, nil
}

func (r *fakeConversationRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Conversation
	for _, id := range ids {
		if c, ok := r.conversations[id]; ok {
			c.Participants = r.participantsOf(id)
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeConversationRepo) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failTouch {
		return ripple_errors.ErrNotFound
	}
	c, ok := r.conversations[id]
	if !ok {
		return ripple_errors.ErrNotFound
	}
	c.UpdatedAt = at
	r.conversations[id] = c
	r.touched = append(r.touched, id)
	return nil
}

func (r *fakeConversationRepo) AddParticipant(ctx context.Context, p *domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.participants {
		if existing.ConversationID == p.ConversationID && existing.ProfileID == p.ProfileID {
			return ripple_errors.ErrAlreadyExists
		}
	}
	r.participants = append(r.participants, *p)
	return nil
}

func (r *fakeConversationRepo) GetParticipants(ctx context.Context, conversationID uuid.UUID) ([]domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.participantsOf(conversationID), nil
}

func (r *fakeConversationRepo) ConversationIDsFor(ctx context.Context, profileID uuid.UUID) ([]uuid.UUID, error) {
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

func (r *fakeConversationRepo) ConversationIDsForIn(ctx context.Context, profileID uuid.UUID, candidates []uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	candidateSet := make(map[uuid.UUID]bool, len(candidates))
	for _, id := range candidates {
		candidateSet[id] = true
	}
	var out []uuid.UUID
	for _, p := range r.participants {
		if p.ProfileID == profileID && candidateSet[p.ConversationID] {
			out = append(out, p.ConversationID)
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) IsParticipant(ctx context.Context, conversationID, profileID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.ConversationID == conversationID && p.ProfileID == profileID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeConversationRepo) participantsOf(conversationID uuid.UUID) []domain.Participant {
	var out []domain.Participant
	for _, p := range r.participants {
		if p.ConversationID == conversationID {
			out = append(out, p)
		}
	}
	return out
}

func (r *fakeConversationRepo) addDirect(a, b uuid.UUID) uuid.UUID {
	conv := domain.Conversation{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.mu.Lock()
	r.conversations[conv.ID] = conv
	for _, pid := range []uuid.UUID{a, b} {
		r.participants = append(r.participants, domain.Participant{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			ProfileID:      pid,
			CreatedAt:      time.Now(),
		})
	}
	r.mu.Unlock()
	return conv.ID
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []domain.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{}
}

func (r *fakeMessageRepo) Create(ctx context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *fakeMessageRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return domain.Message{}, ripple_errors.ErrNotFound
}

func (r *fakeMessageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
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

func (r *fakeMessageRepo) LatestMessage(ctx context.Context, conversationID uuid.UUID) (domain.Message, error) {
	msgs, _ := r.ListByConversation(ctx, conversationID)
	if len(msgs) == 0 {
		return domain.Message{}, ripple_errors.ErrNotFound
	}
	return msgs[len(msgs)-1], nil
}

func (r *fakeMessageRepo) UnreadCount(ctx context.Context, conversationID, viewerID uuid.UUID) (int64, error) {
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

func (r *fakeMessageRepo) MarkConversationRead(ctx context.Context, conversationID, viewerID uuid.UUID) (int64, error) {
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

func (r *fakeMessageRepo) AdvanceStatus(ctx context.Context, messageID uuid.UUID, from, to domain.MessageStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID == messageID && m.Status == from {
			r.messages[i].Status = to
			return nil
		}
	}
	// Matches the SQL implementation: zero rows is not an error.
	return nil
}
