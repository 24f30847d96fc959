package memory

import (
	"agent-dashboard-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRepository holds one chat session per character path_name. Sessions
// never expire: they live exactly as long as the process does.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *SessionRepository) Save(session *entity.ChatSession) {
	r.cache.Set(session.PathName, session, cache.NoExpiration)
}

func (r *SessionRepository) Get(pathName string) (*entity.ChatSession, bool) {
	if x, found := r.cache.Get(pathName); found {
		return x.(*entity.ChatSession), true
	}
	return nil, false
}

// LoadOrCreate returns the session for pathName, creating an empty one on
// first use.
func (r *SessionRepository) LoadOrCreate(pathName string) *entity.ChatSession {
	if session, found := r.Get(pathName); found {
		return session
	}
	session := &entity.ChatSession{PathName: pathName, Messages: make([]*entity.ChatMessage, 0)}
	r.Save(session)
	return session
}

func (r *SessionRepository) Delete(pathName string) {
	r.cache.Delete(pathName)
}
