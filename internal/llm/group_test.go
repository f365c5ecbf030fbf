package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubChatter struct {
	answer string
	err    error
	calls  int
}

func (s *stubChatter) Chat(ctx context.Context, system string, user string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func TestNewGroupChatterEmpty(t *testing.T) {
	require.Nil(t, NewGroupChatter(nil))
	require.Nil(t, NewGroupChatter([]ChatterEntry{}))
}

func TestGroupChatterFirstWins(t *testing.T) {
	first := &stubChatter{answer: "from first"}
	second := &stubChatter{answer: "from second"}
	group := NewGroupChatter([]ChatterEntry{
		{Name: "a", Chatter: first},
		{Name: "b", Chatter: second},
	})

	answer, err := group.Chat(context.Background(), "sys", "hi")
	require.NoError(t, err)
	require.Equal(t, "from first", answer)
	require.Zero(t, second.calls)
}

func TestGroupChatterFallsThrough(t *testing.T) {
	first := &stubChatter{err: ErrUnavailable}
	second := &stubChatter{err: &RequestError{Provider: "b", Status: 429, Body: "rate limited"}}
	third := &stubChatter{answer: "from third"}
	group := NewGroupChatter([]ChatterEntry{
		{Name: "a", Chatter: first},
		{Name: "b", Chatter: second},
		{Name: "c", Chatter: third},
	})

	answer, err := group.Chat(context.Background(), "sys", "hi")
	require.NoError(t, err)
	require.Equal(t, "from third", answer)
	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, second.calls)
}

func TestGroupChatterAllFailReturnsLastError(t *testing.T) {
	lastErr := errors.New("last failure")
	group := NewGroupChatter([]ChatterEntry{
		{Name: "a", Chatter: &stubChatter{err: ErrUnavailable}},
		{Name: "b", Chatter: &stubChatter{err: lastErr}},
	})

	_, err := group.Chat(context.Background(), "sys", "hi")
	require.ErrorIs(t, err, lastErr)
}

func TestGroupChatterSkipsNilEntries(t *testing.T) {
	group := NewGroupChatter([]ChatterEntry{
		{Name: "a", Chatter: nil},
		{Name: "b", Chatter: &stubChatter{answer: "ok"}},
	})

	answer, err := group.Chat(context.Background(), "sys", "hi")
	require.NoError(t, err)
	require.Equal(t, "ok", answer)
}

func TestRequestErrorTruncatesBody(t *testing.T) {
	body := make([]byte, 500)
	for i := range body {
		body[i] = 'x'
	}
	reqErr := newRequestError("test", 500, body)
	require.Len(t, reqErr.Body, maxErrorBody)
}
