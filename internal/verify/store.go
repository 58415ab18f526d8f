package verify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeStore — короткоживущие коды подтверждения (регистрация, сброс
// пароля) с TTL. Когда-то это были глобальные map'ы с самодельными
// таймерами; здесь вытеснение делает Redis.
type CodeStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCodeStore(rdb *redis.Client, ttl time.Duration) *CodeStore {
	return &CodeStore{
		rdb:    rdb,
		prefix: "verify:",
		ttl:    ttl,
	}
}

// Issue генерирует шестизначный код и сохраняет его для ключа
// (обычно email), перезаписывая предыдущий.
func (s *CodeStore) Issue(ctx context.Context, key string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := s.rdb.Set(ctx, s.prefix+key, code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}
	return code, nil
}

// Check сравнивает код с сохранённым. Истёкший или отсутствующий
// ключ — просто false, не ошибка.
func (s *CodeStore) Check(ctx context.Context, key, code string) (bool, error) {
	stored, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == code, nil
}

// Invalidate удаляет код после успешного использования.
func (s *CodeStore) Invalidate(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}
