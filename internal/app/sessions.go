package app

// SessionRepository tracks live lesson sessions (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
	Count() int
}
