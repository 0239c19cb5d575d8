package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"healthmon-backend/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemorySessionStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)
	now := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	session := entity.NewRegistrationSession()
	session.Name = "Budi"
	if err := store.Save(ctx, 1, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, 1)
	if err != nil || got == nil || got.Name != "Budi" {
		t.Fatalf("expected stored session, got %+v (%v)", got, err)
	}

	// Mutating the returned copy must not change the stored session.
	got.Name = "changed"
	again, _ := store.Get(ctx, 1)
	if again.Name != "Budi" {
		t.Fatalf("store returned a shared reference")
	}

	now = now.Add(2 * time.Minute)
	expired, err := store.Get(ctx, 1)
	if err != nil || expired != nil {
		t.Fatalf("expected expired session to be gone, got %+v (%v)", expired, err)
	}
}

func TestMemorySessionStoreConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore(time.Minute)

	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			session := entity.NewRegistrationSession()
			_ = store.Save(ctx, id, session)
			_, _ = store.Get(ctx, id)
		}(i)
	}
	wg.Wait()

	if store.Len() != 50 {
		t.Fatalf("expected 50 sessions, got %d", store.Len())
	}
}

func TestRedisSessionStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisSessionStore(client, 30*time.Minute)

	missing, err := store.Get(ctx, 7)
	if err != nil || missing != nil {
		t.Fatalf("expected no session, got %+v (%v)", missing, err)
	}

	session := &entity.RegistrationSession{Step: entity.StepName, Category: entity.CategoryBayi, Gender: entity.GenderFemale}
	if err := store.Save(ctx, 7, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, 7)
	if err != nil || got == nil {
		t.Fatalf("get: %+v (%v)", got, err)
	}
	if got.Step != entity.StepName || got.Category != entity.CategoryBayi {
		t.Fatalf("unexpected session: %+v", got)
	}

	mr.FastForward(31 * time.Minute)
	expired, err := store.Get(ctx, 7)
	if err != nil || expired != nil {
		t.Fatalf("expected session to expire, got %+v (%v)", expired, err)
	}

	_ = store.Save(ctx, 7, session)
	if err := store.Delete(ctx, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists(RedisSessionKeyPrefix + "7") {
		t.Fatal("expected key to be removed")
	}
}
