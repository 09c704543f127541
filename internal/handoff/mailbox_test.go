package handoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/creditbridge/backend/internal/domain"
)

// fakeRedis implements the commands RedisMailbox uses.
type fakeRedis struct {
	redis.Cmdable
	data    map[string]string
	ttls    map[string]time.Duration
	failSet error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if f.failSet != nil {
		cmd.SetErr(f.failSet)
		return cmd
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) GetDel(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	v, ok := f.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	delete(f.data, key)
	cmd.SetVal(v)
	return cmd
}

func (f *fakeRedis) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func sampleResult() domain.AssessmentResult {
	return domain.AssessmentResult{
		SessionID: "sess-1",
		Fields: map[string]domain.FieldValue{
			"fullName":         domain.Text("Rajesh Kumar"),
			"linkedinVerified": domain.Flag(true),
		},
		Request:  domain.ScoringRequest{CibilScore: 750, GeographicalMovement: 0.9},
		Response: domain.ScoringResponse{Prediction: 1, ApprovalProbability: 0.81},
	}
}

func exerciseMailbox(t *testing.T, mb Mailbox) {
	t.Helper()
	ctx := context.Background()
	key := KeyFor("sess-1")

	_, err := mb.Take(ctx, key)
	assert.True(t, errors.Is(err, ErrEmpty))

	pending, err := mb.Pending(ctx, key)
	require.NoError(t, err)
	assert.False(t, pending)

	require.NoError(t, mb.Put(ctx, key, sampleResult()))
	pending, err = mb.Pending(ctx, key)
	require.NoError(t, err)
	assert.True(t, pending, "Pending must see a stored result")

	got, err := mb.Take(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), got)

	pending, err = mb.Pending(ctx, key)
	require.NoError(t, err)
	assert.False(t, pending)

	_, err = mb.Take(ctx, key)
	assert.True(t, errors.Is(err, ErrEmpty), "slot must be empty after a read")
}

func TestMemoryMailbox(t *testing.T) {
	exerciseMailbox(t, NewMemoryMailbox())
}

func TestMemoryMailbox_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	mb := NewMemoryMailbox()

	first := sampleResult()
	second := sampleResult()
	second.Response.ApprovalProbability = 0.12

	require.NoError(t, mb.Put(ctx, ResultKey, first))
	require.NoError(t, mb.Put(ctx, ResultKey, second))

	got, err := mb.Take(ctx, ResultKey)
	require.NoError(t, err)
	assert.InDelta(t, 0.12, got.Response.ApprovalProbability, 1e-9)
}

func TestRedisMailbox(t *testing.T) {
	fake := newFakeRedis()
	exerciseMailbox(t, NewRedisMailbox(fake, time.Minute))
}

func TestRedisMailbox_StoresWithTTL(t *testing.T) {
	fake := newFakeRedis()
	mb := NewRedisMailbox(fake, 30*time.Minute)

	require.NoError(t, mb.Put(context.Background(), KeyFor("abc"), sampleResult()))
	assert.Equal(t, 30*time.Minute, fake.ttls["assessmentResult:abc"])
	assert.Contains(t, fake.data["assessmentResult:abc"], `"apiResponse"`)
}

func TestRedisMailbox_Errors(t *testing.T) {
	fake := newFakeRedis()
	fake.failSet = errors.New("READONLY")
	mb := NewRedisMailbox(fake, 0)

	err := mb.Put(context.Background(), ResultKey, sampleResult())
	assert.ErrorContains(t, err, "READONLY")

	fake.data[ResultKey] = "{not json"
	_, err = mb.Take(context.Background(), ResultKey)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrEmpty))
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, "assessmentResult", KeyFor(""))
	assert.Equal(t, "assessmentResult:42", KeyFor("42"))
}
