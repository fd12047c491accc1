package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/chatman/internal/model"
)

// MemorySessionRepo はプロセス内メモリを使用したセッションリポジトリ。
// 期限切れセッションはバックグラウンドスイープではなく、
// FindByID時に遅延削除する。
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session

	// now はテストで時刻を差し替えるためのフック。
	now func() time.Time
}

// NewMemorySessionRepo はMemorySessionRepoを生成する。
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{
		sessions: make(map[string]*model.Session),
		now:      time.Now,
	}
}

// Create はセッションを作成する。
func (r *MemorySessionRepo) Create(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := *session
	r.sessions[s.ID] = &s
	return nil
}

// FindByID は指定IDのセッションを取得する。
// 期限切れの場合はエントリを削除した上でnilを返す。
func (r *MemorySessionRepo) FindByID(_ context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	if !r.now().Before(s.ExpiresAt) {
		delete(r.sessions, id)
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

// DeleteByID は指定IDのセッションを削除する。存在しない場合も成功を返す。
func (r *MemorySessionRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}

// Len は現在保持しているセッション数を返す。テスト用。
func (r *MemorySessionRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// compile-time interface check
var _ SessionRepository = (*MemorySessionRepo)(nil)
