package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/maxkhm/SageBot/internal/agent"
	"github.com/maxkhm/SageBot/internal/agent/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_EchoesAndRecordsCalls(t *testing.T) {
	var p agent.Provider = mock.New()

	reply, err := p.Reply(context.Background(), agent.Request{UserID: 7, Message: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "You said: ping", reply.Text)

	m := p.(*mock.Provider)
	require.Len(t, m.Calls, 1)
	assert.Equal(t, int64(7), m.Calls[0].UserID)
}

func TestMockProvider_FixedReplyAndError(t *testing.T) {
	p := mock.New()
	p.FixedReply = "canned"

	reply, err := p.Reply(context.Background(), agent.Request{Message: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "canned", reply.Text)

	p.Err = errors.New("backend down")
	_, err = p.Reply(context.Background(), agent.Request{Message: "again"})
	require.Error(t, err)
}
