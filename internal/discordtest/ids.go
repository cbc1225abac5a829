package discordtest

import (
	"reflect"
	"strconv"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
)

var discordID atomic.Uint64

// NextID returns a fresh identifier. Identifiers are unique within the
// test binary, across goroutines.
func NextID() string {
	return strconv.FormatUint(discordID.Add(1), 10)
}

// IDOf returns the identifier of a fixture, or "" for unknown types.
// Members are identified by their user, partial emoji by their name.
func IDOf(v any) string {
	switch v := v.(type) {
	case *discordgo.Guild:
		return v.ID
	case *discordgo.Role:
		return v.ID
	case *discordgo.Member:
		if v.User == nil {
			return ""
		}
		return v.User.ID
	case *discordgo.User:
		return v.ID
	case *discordgo.Channel:
		return v.ID
	case *discordgo.Message:
		return v.ID
	case *discordgo.MessageAttachment:
		return v.ID
	case *discordgo.Emoji:
		return v.APIName()
	case *discordgo.Webhook:
		return v.ID
	case *Bot:
		return IDOf(v.User)
	default:
		return ""
	}
}

// SameEntity reports whether a and b are the same kind of object with the
// same identifier, whatever the rest of their fields say.
func SameEntity(a, b any) bool {
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	id := IDOf(a)
	return id != "" && id == IDOf(b)
}
