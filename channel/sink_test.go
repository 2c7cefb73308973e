package channel

import (
	"context"
	"testing"
	"time"

	"stage-link/domain"

	"github.com/stretchr/testify/require"
)

func Test_Sink_ConsumeThenDrain(t *testing.T) {
	req := require.New(t)
	sink := NewSink(2)

	err := sink.Consume(context.Background(), domain.Notification{Title: "premier"})
	req.NoError(err)

	n := <-sink.Frames()
	req.Equal("premier", n.Title)
}

func Test_Sink_ConsumeBoundedByContext(t *testing.T) {
	req := require.New(t)
	sink := NewSink(1)
	req.NoError(sink.Consume(context.Background(), domain.Notification{}))

	// Buffer is full and nobody drains: the bounded context must fire
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := sink.Consume(ctx, domain.Notification{})
	req.ErrorIs(err, context.DeadlineExceeded)
}

func Test_Sink_CloseIsIdempotentFirstReasonWins(t *testing.T) {
	req := require.New(t)
	sink := NewSink(1)

	sink.Close("delivery timeout")
	sink.Close("connection closed")

	<-sink.Closed()
	req.Equal("delivery timeout", sink.CloseReason())
}

func Test_Sink_ConsumeAfterClose(t *testing.T) {
	sink := NewSink(0)
	sink.Close("gone")

	err := sink.Consume(context.Background(), domain.Notification{})
	require.Error(t, err)
}
