package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublishRecordsMessages(t *testing.T) {
	t.Parallel()

	p := New()

	id, err := p.Publish(context.Background(), map[string]any{"documents": 3})
	require.NoError(t, err)
	require.Equal(t, "mem-1", id)

	id, err = p.Publish(context.Background(), map[string]any{"documents": 5})
	require.NoError(t, err)
	require.Equal(t, "mem-2", id)

	msgs := p.Messages()
	require.Len(t, msgs, 2)
	require.JSONEq(t, `{"documents":3}`, string(msgs[0]))
}

func TestPublishUnserializablePayload(t *testing.T) {
	t.Parallel()

	p := New()
	_, err := p.Publish(context.Background(), func() {})
	require.Error(t, err)
}
