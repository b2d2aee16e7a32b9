package database

import (
	"fmt"
	"log"
	"time"

	"ripple-chat/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	Password      string
	Usernames     []string
	WithDemoChats bool
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		Password:      "Demo@123!",
		Usernames:     []string{"alice", "bob", "charlie"},
		WithDemoChats: true,
	}
}

// SeedResult holds the result of the seeding operation
type SeedResult struct {
	Profiles      []*domain.Profile
	Conversations []*domain.Conversation
	Messages      []*domain.Message
}

// Seed creates demo profiles and one direct conversation with a short
// exchange. Existing usernames are left untouched.
func Seed(db *gorm.DB, cfg *SeedConfig) (*SeedResult, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	result := &SeedResult{}

	log.Println("Starting database seeding...")

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	for _, username := range cfg.Usernames {
		p := &domain.Profile{
			ID:           uuid.New(),
			Username:     username,
			FullName:     domain.NewNullString(titleCase(username)),
			Status:       "offline",
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		res := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoNothing: true,
		}).Create(p)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to seed profile %s: %w", username, res.Error)
		}
		result.Profiles = append(result.Profiles, p)
	}

	if !cfg.WithDemoChats || len(result.Profiles) < 2 {
		return result, nil
	}

	a, b := result.Profiles[0], result.Profiles[1]
	conv := &domain.Conversation{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := db.Create(conv).Error; err != nil {
		return nil, fmt.Errorf("failed to seed conversation: %w", err)
	}
	result.Conversations = append(result.Conversations, conv)

	for _, pid := range []uuid.UUID{a.ID, b.ID} {
		part := &domain.Participant{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			ProfileID:      pid,
			CreatedAt:      time.Now(),
		}
		if err := db.Create(part).Error; err != nil {
			return nil, fmt.Errorf("failed to seed participant: %w", err)
		}
	}

	greetings := []struct {
		sender  uuid.UUID
		content string
	}{
		{a.ID, "Hey! This account was seeded for local development."},
		{b.ID, "Nice, the realtime feed should light up when you reply."},
	}
	for _, g := range greetings {
		m := &domain.Message{
			ID:             uuid.New(),
			ConversationID: conv.ID,
			SenderID:       g.sender,
			Content:        g.content,
			Status:         domain.StatusSent,
			CreatedAt:      time.Now(),
		}
		if err := db.Create(m).Error; err != nil {
			return nil, fmt.Errorf("failed to seed message: %w", err)
		}
		result.Messages = append(result.Messages, m)
	}

	log.Printf("Seeding complete: %d profiles, %d conversations", len(result.Profiles), len(result.Conversations))
	return result, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-('a'-'A')) + s[1:]
}
