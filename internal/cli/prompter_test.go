package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestPrompter_ReadsLinesThenEOF(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("first\n  second  \n"), &out)
	ctx := context.Background()

	got, err := p.Ask(ctx, "> ")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, err = p.Ask(ctx, "> ")
	require.NoError(t, err)
	assert.Equal(t, "  second  ", got)

	_, err = p.Ask(ctx, "> ")
	assert.ErrorIs(t, err, io.EOF)
	_, err = p.Ask(ctx, "> ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "> > > > ", out.String())
}

func TestPrompter_LongLineThenMore(t *testing.T) {
	long := strings.Repeat("9", 70000)
	p := NewPrompter(strings.NewReader(long+"\r\n1\nlast"), io.Discard)
	ctx := context.Background()

	got, err := p.Ask(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, long, got)

	got, err = p.Ask(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	got, err = p.Ask(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = p.Ask(ctx, "")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPrompter_ReaderError(t *testing.T) {
	p := NewPrompter(failingReader{}, io.Discard)
	_, err := p.Ask(context.Background(), "")
	require.Error(t, err)
	assert.EqualError(t, err, "read failed")
}

func TestPrompter_CanceledWhileWaiting(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	p := NewPrompter(pr, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Ask(ctx, "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
