package store

import (
	"context"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"learning-platform/backend/models"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid-redis", "redis://localhost:6379", false},
		{"valid-with-db", "redis://localhost:6379/0", false},
		{"bad-scheme", "http://localhost:6379", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCache_UnreachableHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping unreachable host test in short mode")
	}

	_, err := NewCache(t.Context(), "redis://localhost:59999")
	assert.Error(t, err)
}

func newRedisCache(t *testing.T) *Cache {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	endpoint, err := ctr.Endpoint(ctx, "redis")
	require.NoError(t, err)

	c, err := NewCache(ctx, endpoint)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCachedStore_InvalidatesOnWrite(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()
	inner := NewMemoryStore()
	s := NewCachedStore(inner, c, time.Minute, nil)
	course, _ := seedCourse(t, s, 2)

	lessons, err := s.ListLessons(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 2)

	require.NoError(t, s.CreateLesson(ctx, &models.Lesson{CourseID: course.ID, Title: "new", SequenceOrder: 3}))
	lessons, err = s.ListLessons(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, lessons, 3)

	require.NoError(t, s.SaveQuizSettings(ctx, &models.QuizSettings{PassMarkPercentage: 50, EnforcePassMark: true}))
	got, err := s.GetQuizSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, got.PassMarkPercentage)

	require.NoError(t, s.SaveQuizSettings(ctx, &models.QuizSettings{PassMarkPercentage: 90, EnforcePassMark: true}))
	got, err = s.GetQuizSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90, got.PassMarkPercentage)
}

func TestCachedStore_SaveQuizSettingsRewritesKey(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()
	s := NewCachedStore(NewMemoryStore(), c, time.Minute, nil)

	require.NoError(t, s.SaveQuizSettings(ctx, &models.QuizSettings{PassMarkPercentage: 50, EnforcePassMark: true}))
	_, err := s.GetQuizSettings(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SaveQuizSettings(ctx, &models.QuizSettings{PassMarkPercentage: 85, EnforcePassMark: false}))

	raw, err := c.Client.Get(ctx, settingsKey).Bytes()
	require.NoError(t, err)
	var cached models.QuizSettings
	require.NoError(t, sonic.Unmarshal(raw, &cached))
	assert.Equal(t, 85, cached.PassMarkPercentage)
	assert.False(t, cached.EnforcePassMark)

	ttl, err := c.Client.TTL(ctx, settingsKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestCachedStore_ServesFromCache(t *testing.T) {
	c := newRedisCache(t)
	ctx := context.Background()
	inner := NewMemoryStore()
	s := NewCachedStore(inner, c, time.Minute, nil)
	course, _ := seedCourse(t, s, 1)

	_, err := s.ListLessons(ctx, course.ID)
	require.NoError(t, err)

	// Write behind the cache's back; the cached list stays.
	require.NoError(t, inner.CreateLesson(ctx, &models.Lesson{CourseID: course.ID, Title: "hidden", SequenceOrder: 2}))
	lessons, err := s.ListLessons(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, lessons, 1)
}
