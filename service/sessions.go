package service

import (
	"sync"
	"time"

	"github.com/TIANLI0/SegBrush/config"
	"github.com/TIANLI0/SegBrush/editor"
	"github.com/TIANLI0/SegBrush/utils"
	"go.uber.org/zap"
)

// Session 一个服务端编辑会话。Editor 不是并发安全的，所有访问经由 SessionManager.With 串行化。
type Session struct {
	ID string

	mu         sync.Mutex
	editor     *editor.Editor
	prompt     string
	lastAccess time.Time
}

func (s *Session) Editor() *editor.Editor { return s.editor }
func (s *Session) Prompt() string         { return s.prompt }
func (s *Session) SetPrompt(p string)     { s.prompt = p }

// SessionManager 内存中的会话表，空闲超时的会话由后台协程清理
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	legend      *LegendService
	editorCfg   editor.Config
	idleTimeout time.Duration
	maxSessions int
	now         func() time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewSessionManager(cfg *config.Config, legend *LegendService) *SessionManager {
	m := &SessionManager{
		sessions: make(map[string]*Session),
		legend:   legend,
		editorCfg: editor.Config{
			CustomColor:    cfg.Editor.CustomColor,
			BrushWidth:     cfg.Editor.BrushWidth,
			FallbackWidth:  cfg.Editor.FallbackWidth,
			FallbackHeight: cfg.Editor.FallbackHeight,
			MaxPixels:      cfg.Editor.MaxPixels,
			Diagnostics:    Diagnostics(cfg.Editor.Diagnostics),
		},
		idleTimeout: cfg.Session.IdleTimeout,
		maxSessions: cfg.Session.MaxSessions,
		now:         time.Now,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}

	if cfg.Session.IdleTimeout > 0 && cfg.Session.SweepInterval > 0 {
		go m.sweepLoop(cfg.Session.SweepInterval)
	} else {
		close(m.done)
	}
	return m
}

// Create 新建会话
func (m *SessionManager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrTooManySessions
	}

	s := &Session{
		ID:         utils.NewSessionID(),
		editor:     editor.New(m.legend.Current(), m.editorCfg),
		prompt:     DefaultPrompt,
		lastAccess: m.now(),
	}
	m.sessions[s.ID] = s

	utils.Logger.Info("session created",
		zap.String("session_id", s.ID),
		zap.Int("sessions", len(m.sessions)))
	return s, nil
}

// With 在会话锁内执行 fn。调色板更新会在此时同步到会话。
func (m *SessionManager) With(id string, fn func(*Session) error) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAccess = m.now()
	if p := m.legend.Current(); p != s.editor.Palette() {
		s.editor.SetPalette(p)
	}
	return fn(s)
}

// Delete 删除会话
func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	utils.Logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close 停止清理协程
func (m *SessionManager) Close() {
	m.once.Do(func() { close(m.stop) })
	<-m.done
}

func (m *SessionManager) sweepLoop(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

// sweep 清理空闲会话；正在被使用的会话（持有锁）跳过
func (m *SessionManager) sweep() int {
	cutoff := m.now().Add(-m.idleTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if !s.mu.TryLock() {
			continue
		}
		idle := s.lastAccess.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		utils.Logger.Info("idle sessions removed",
			zap.Int("removed", removed),
			zap.Int("sessions", len(m.sessions)))
	}
	return removed
}
