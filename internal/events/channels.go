package events

import (
	"github.com/google/uuid"
)

// Channel prefixes
const (
	channelPrefixConversation = "channel:conversation:"
	channelPrefixProfile      = "channel:profile:"
	channelPatternAll         = "channel:*"
)

// ConversationChannel scopes an envelope to one conversation's feed.
func ConversationChannel(id uuid.UUID) string {
	return channelPrefixConversation + id.String()
}

// ProfileChannel scopes an envelope to one profile (presence).
func ProfileChannel(id uuid.UUID) string {
	return channelPrefixProfile + id.String()
}

// ResolveChannels maps an envelope to the channels it is published on.
func ResolveChannels(env Envelope) []string {
	switch env.Type {
	case TypeMessageCreated, TypeReceiptRead, TypeConversationCreated:
		if env.ConversationID == uuid.Nil {
			return nil
		}
		return []string{ConversationChannel(env.ConversationID)}
	case TypePresenceOnline, TypePresenceOffline:
		if env.ProfileID == uuid.Nil {
			return nil
		}
		return []string{ProfileChannel(env.ProfileID)}
	default:
		return nil
	}
}
