package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xiaoyibao/medassist/internal/domain"
)

func TestSessionStoreCreatesOnFirstUse(t *testing.T) {
	store := NewSessionStore()

	assert.Empty(t, store.Snapshot("u1", domain.ChannelGeneral))
	assert.Empty(t, store.CacheName("u1", domain.ChannelReport))
	assert.Nil(t, store.Artifact("u1", domain.ChannelImage))
}

func TestSessionStoreUpdateIsAtomicPerCall(t *testing.T) {
	store := NewSessionStore()

	store.Update("u1", domain.ChannelGeneral, func(s *domain.Session) {
		s.Append(domain.RoleUser, "q")
		s.Append(domain.RoleAssistant, "a")
	})

	turns := store.Snapshot("u1", domain.ChannelGeneral)
	assert.Len(t, turns, 2)
}

func TestSessionStoreSnapshotIsACopy(t *testing.T) {
	store := NewSessionStore()
	store.Update("u1", domain.ChannelGeneral, func(s *domain.Session) {
		s.Append(domain.RoleUser, "q")
	})

	turns := store.Snapshot("u1", domain.ChannelGeneral)
	turns[0].Content = "mutated"

	assert.Equal(t, "q", store.Snapshot("u1", domain.ChannelGeneral)[0].Content)
}

func TestSessionStoreClearDropsEverything(t *testing.T) {
	store := NewSessionStore()
	store.Update("u1", domain.ChannelReport, func(s *domain.Session) {
		s.Append(domain.RoleAssistant, "summary")
		s.CacheName = "caches/1"
		s.Artifact = &domain.UploadedArtifact{OriginalName: "r.pdf"}
	})

	store.Clear("u1", domain.ChannelReport)

	assert.Empty(t, store.Snapshot("u1", domain.ChannelReport))
	assert.Empty(t, store.CacheName("u1", domain.ChannelReport))
	assert.Nil(t, store.Artifact("u1", domain.ChannelReport))
}

func TestSessionStoreConcurrentUpdates(t *testing.T) {
	store := NewSessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Update("u1", domain.ChannelGeneral, func(s *domain.Session) {
				s.Append(domain.RoleUser, "q")
				s.Append(domain.RoleAssistant, "a")
			})
		}()
	}
	wg.Wait()

	turns := store.Snapshot("u1", domain.ChannelGeneral)
	assert.Len(t, turns, 100)
	for i, turn := range turns {
		if i%2 == 0 {
			assert.Equal(t, domain.RoleUser, turn.Role)
		} else {
			assert.Equal(t, domain.RoleAssistant, turn.Role)
		}
	}
}
