package auth

import "sync"

// Session tracks the currently signed-in identity and fans out every change.
// A nil identity means signed out.
type Session struct {
	mu      sync.Mutex
	current *Identity
	subs    map[chan *Identity]struct{}
}

// NewSession creates a session that starts signed out.
func NewSession() *Session {
	return &Session{subs: make(map[chan *Identity]struct{})}
}

// Current returns the signed-in identity or nil.
func (s *Session) Current() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe returns a channel that first yields the current identity and then every
// change. Only the latest identity is kept for a slow reader. The returned func stops the
// subscription and closes the channel.
func (s *Session) Subscribe() (<-chan *Identity, func()) {
	ch := make(chan *Identity, 1)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	ch <- s.current
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			close(ch)
			s.mu.Unlock()
		})
	}
}

// SignIn makes id the current identity.
func (s *Session) SignIn(id *Identity) {
	s.set(id)
}

// SignOut clears the current identity.
func (s *Session) SignOut() {
	s.set(nil)
}

func (s *Session) set(id *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = id
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- id
	}
}
