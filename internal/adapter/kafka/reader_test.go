package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves queued messages, then blocks until the fetch context ends
// (or returns err once the queue is drained, when set).
type fakeFetcher struct {
	msgs      []kafkago.Message
	err       error
	committed []kafkago.Message
}

func (f *fakeFetcher) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.msgs) > 0 {
		msg := f.msgs[0]
		f.msgs = f.msgs[1:]
		return msg, nil
	}
	if f.err != nil {
		return kafkago.Message{}, f.err
	}
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (f *fakeFetcher) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeFetcher) Close() error { return nil }

func newTestReader(f *fakeFetcher, flush time.Duration) *Reader {
	return &Reader{
		fetcher:       f,
		flushInterval: flush,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func inventoryMessages(ids ...string) []kafkago.Message {
	msgs := make([]kafkago.Message, len(ids))
	for i, id := range ids {
		msgs[i] = kafkago.Message{Key: []byte(id), Value: []byte(`{"record":"` + id + `"}`), Offset: int64(i)}
	}
	return msgs
}

func TestExtractBatch_FullBatch(t *testing.T) {
	f := &fakeFetcher{msgs: inventoryMessages("1", "2", "3")}
	r := newTestReader(f, time.Second)

	batch, err := r.ExtractBatch(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, []byte("1"), batch[0].Key)
	assert.Equal(t, []byte("2"), batch[1].Key)
	assert.Len(t, f.msgs, 1, "third message stays queued")
}

func TestExtractBatch_PartialBatchOnFlushInterval(t *testing.T) {
	f := &fakeFetcher{msgs: inventoryMessages("17.1")}
	r := newTestReader(f, 50*time.Millisecond)

	batch, err := r.ExtractBatch(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, []byte("17.1"), batch[0].Key)
}

func TestExtractBatch_EmptyOnFlushInterval(t *testing.T) {
	r := newTestReader(&fakeFetcher{}, 20*time.Millisecond)

	batch, err := r.ExtractBatch(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestExtractBatch_ParentCancelled(t *testing.T) {
	r := newTestReader(&fakeFetcher{msgs: inventoryMessages("1")}, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	batch, err := r.ExtractBatch(ctx, 10)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, batch)
}

func TestExtractBatch_BrokerErrorDropsBatch(t *testing.T) {
	f := &fakeFetcher{msgs: inventoryMessages("1"), err: errors.New("broker gone")}
	r := newTestReader(f, time.Second)

	batch, err := r.ExtractBatch(context.Background(), 10)

	require.EqualError(t, err, "broker gone")
	assert.Nil(t, batch)
	assert.Empty(t, f.committed)
}

func TestExtractBatch_CommitCallback(t *testing.T) {
	f := &fakeFetcher{msgs: inventoryMessages("5")}
	r := newTestReader(f, time.Second)

	batch, err := r.ExtractBatch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.NotNil(t, batch[0].Commit)

	require.NoError(t, batch[0].Commit(context.Background()))
	require.Len(t, f.committed, 1)
	assert.Equal(t, []byte("5"), f.committed[0].Key)
}
