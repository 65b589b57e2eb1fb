package cache

import (
	"context"
	"fmt"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// AvailabilityKey identifica o dia de um barbeiro para o cache de slots.
// Qualquer escrita de agenda desse dia invalida a chave inteira.
func AvailabilityKey(barberID uint, day time.Time) string {
	return fmt.Sprintf("availability:%d:%s", barberID, day.Format("2006-01-02"))
}

// NoopCache mantém a API funcionando sem Redis configurado
type NoopCache struct{}

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *NoopCache) Delete(ctx context.Context, key string) error {
	return nil
}
