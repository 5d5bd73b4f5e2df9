package email

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	calls int
	err   error
}

func (f *fakeSender) Send(ctx context.Context, to []string, subject string, rawMessage []byte) error {
	f.calls++
	return f.err
}

func TestCompositeSenderFansOut(t *testing.T) {
	first := &fakeSender{}
	second := &fakeSender{}
	composite := NewCompositeEmailSender(first)
	composite.AddSender(second)
	composite.AddSender(nil) // ignored

	err := composite.Send(context.Background(), []string{"alice@example.com"}, "Test", []byte("body"))

	require.NoError(t, err)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestCompositeSenderCollectsAllErrors(t *testing.T) {
	failing := &fakeSender{err: errors.New("smtp down")}
	working := &fakeSender{}
	alsoFailing := &fakeSender{err: errors.New("disk full")}
	composite := NewCompositeEmailSender(failing, working, alsoFailing)

	err := composite.Send(context.Background(), []string{"alice@example.com"}, "Test", []byte("body"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	assert.Contains(t, err.Error(), "disk full")
	// One sender failing never short-circuits the others.
	assert.Equal(t, 1, working.calls)
}

func TestCompositeSenderEmpty(t *testing.T) {
	composite := NewCompositeEmailSender()
	err := composite.Send(context.Background(), []string{"alice@example.com"}, "Test", []byte("body"))
	assert.Error(t, err)
}

func TestFileEmailSenderAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mail", "outbox.log")
	sender, err := NewFileEmailSender(path)
	require.NoError(t, err)

	require.NoError(t, sender.Send(context.Background(), []string{"alice@example.com"}, "First", []byte("hello")))
	require.NoError(t, sender.Send(context.Background(), []string{"bob@example.com"}, "Second", []byte("world")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello")
	assert.Contains(t, string(content), "world")
	assert.Contains(t, string(content), "Subject: First")
}

func TestFileEmailSenderRejectsEmptyPath(t *testing.T) {
	_, err := NewFileEmailSender("  ")
	assert.Error(t, err)
}
