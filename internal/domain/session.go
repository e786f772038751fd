package domain

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Channel identifies one of the three independent conversational surfaces.
type Channel string

const (
	ChannelGeneral Channel = "general"
	ChannelImage   Channel = "image"
	ChannelReport  Channel = "report"
)

// Channels lists all valid channels in display order.
var Channels = []Channel{ChannelGeneral, ChannelImage, ChannelReport}

func ValidChannel(c Channel) bool {
	return c == ChannelGeneral || c == ChannelImage || c == ChannelReport
}

// Turn is one role-tagged message in a conversation history.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the ordered, append-only turn log for one owner/channel pair.
// The report channel additionally owns the name of the server-side document
// cache created for the last uploaded report; the image channel keeps the
// last ingested artifact so follow-up questions can re-send the image.
type Session struct {
	Owner     string            `json:"owner"`
	Channel   Channel           `json:"channel"`
	Turns     []Turn            `json:"turns"`
	CacheName string            `json:"cache_name,omitempty"`
	Artifact  *UploadedArtifact `json:"artifact,omitempty"`
}

func (s *Session) Append(role Role, content string) {
	s.Turns = append(s.Turns, Turn{Role: role, Content: content, CreatedAt: time.Now()})
}

// Clear resets the session to its empty state, dropping turns, the cache
// handle and any remembered artifact.
func (s *Session) Clear() {
	s.Turns = nil
	s.CacheName = ""
	s.Artifact = nil
}
