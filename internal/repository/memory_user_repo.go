package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/chatman/internal/model"
)

// MemoryUserRepo はプロセス内メモリを使用したユーザーリポジトリ。
// DATABASE_URL未設定時およびテストで使用する。
// ユーザーレコードはプロセスの寿命でのみ保持される。
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		users: make(map[string]*model.User),
	}
}

// Create はユーザーを作成する。
// メールアドレスの重複チェックは行わない（呼び出し側がFindByEmailで事前確認する）。
func (r *MemoryUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := *user
	r.users[u.ID] = &u
	return nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
// 線形走査だが、想定ユーザー数の規模では問題にならない。
func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// compile-time interface check
var _ UserRepository = (*MemoryUserRepo)(nil)
