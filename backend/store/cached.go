package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"learning-platform/backend/models"
)

const (
	settingsKey   = "lp:quiz_settings"
	lessonsPrefix = "lp:lessons:"
)

// CachedStore serves quiz settings and per-course lesson lists from Redis and
// delegates everything else to the wrapped Store. Redis failures fall through
// to the wrapped Store.
type CachedStore struct {
	Store
	cache *Cache
	ttl   time.Duration
	log   *slog.Logger
}

func NewCachedStore(inner Store, cache *Cache, ttl time.Duration, log *slog.Logger) *CachedStore {
	if log == nil {
		log = slog.Default()
	}
	return &CachedStore{Store: inner, cache: cache, ttl: ttl, log: log}
}

func lessonsKey(courseID uint) string {
	return fmt.Sprintf("%s%d", lessonsPrefix, courseID)
}

// load reads key into dst. It reports false on a miss or any cache error.
func (s *CachedStore) load(ctx context.Context, key string, dst any) bool {
	raw, err := s.cache.Client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := sonic.Unmarshal(raw, dst); err != nil {
		s.log.Warn("cache decode failed", "key", key, "error", err)
		return false
	}
	return true
}

func (s *CachedStore) put(ctx context.Context, key string, v any) {
	if err := s.set(ctx, key, v); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
}

func (s *CachedStore) set(ctx context.Context, key string, v any) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	return s.cache.Client.Set(ctx, key, raw, s.ttl).Err()
}

func (s *CachedStore) evict(ctx context.Context, keys ...string) {
	if err := s.cache.Client.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn("cache evict failed", "keys", keys, "error", err)
	}
}

func (s *CachedStore) evictAllLessons(ctx context.Context) {
	iter := s.cache.Client.Scan(ctx, 0, lessonsPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.log.Warn("cache scan failed", "error", err)
		return
	}
	if len(keys) > 0 {
		s.evict(ctx, keys...)
	}
}

func (s *CachedStore) GetQuizSettings(ctx context.Context) (*models.QuizSettings, error) {
	var settings models.QuizSettings
	if s.load(ctx, settingsKey, &settings) {
		return &settings, nil
	}
	got, err := s.Store.GetQuizSettings(ctx)
	if err != nil {
		return nil, err
	}
	s.put(ctx, settingsKey, got)
	return got, nil
}

func (s *CachedStore) SaveQuizSettings(ctx context.Context, settings *models.QuizSettings) error {
	if err := s.Store.SaveQuizSettings(ctx, settings); err != nil {
		return err
	}
	// The key mirrors the stored row; on a failed write it is dropped instead.
	if err := s.set(ctx, settingsKey, settings); err != nil {
		s.log.Error("quiz settings cache refresh failed, stale until expiry",
			"key", settingsKey, "ttl", s.ttl, "error", err)
		s.evict(ctx, settingsKey)
	}
	return nil
}

func (s *CachedStore) ListLessons(ctx context.Context, courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if s.load(ctx, lessonsKey(courseID), &lessons) {
		return lessons, nil
	}
	got, err := s.Store.ListLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	s.put(ctx, lessonsKey(courseID), got)
	return got, nil
}

func (s *CachedStore) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	if err := s.Store.CreateLesson(ctx, lesson); err != nil {
		return err
	}
	s.evict(ctx, lessonsKey(lesson.CourseID))
	return nil
}

func (s *CachedStore) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	if err := s.Store.UpdateLesson(ctx, lesson); err != nil {
		return err
	}
	s.evict(ctx, lessonsKey(lesson.CourseID))
	return nil
}

func (s *CachedStore) DeleteLesson(ctx context.Context, id uint, reorder map[uint]int) error {
	lesson, err := s.Store.GetLesson(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.DeleteLesson(ctx, id, reorder); err != nil {
		return err
	}
	s.evict(ctx, lessonsKey(lesson.CourseID))
	return nil
}

func (s *CachedStore) SetLessonOrders(ctx context.Context, courseID uint, orders map[uint]int) error {
	if err := s.Store.SetLessonOrders(ctx, courseID, orders); err != nil {
		return err
	}
	s.evict(ctx, lessonsKey(courseID))
	return nil
}

func (s *CachedStore) DeleteCourse(ctx context.Context, id uint) error {
	if err := s.Store.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, lessonsKey(id))
	return nil
}

// DeleteQuizSet detaches the set from lessons of any course, so every lesson list is evicted.
func (s *CachedStore) DeleteQuizSet(ctx context.Context, id uint) error {
	if err := s.Store.DeleteQuizSet(ctx, id); err != nil {
		return err
	}
	s.evictAllLessons(ctx)
	return nil
}

var _ Store = (*CachedStore)(nil)
