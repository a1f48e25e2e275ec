package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func frame(content string) string {
	return fmt.Sprintf("data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", content)
}

// trackingBody records Close calls on a wrapped reader.
type trackingBody struct {
	io.Reader
	closed atomic.Int32
}

func (b *trackingBody) Close() error {
	b.closed.Add(1)
	return nil
}

func body(s string) *trackingBody {
	return &trackingBody{Reader: strings.NewReader(s)}
}

func collect(t *testing.T, d *Decoder) []string {
	t.Helper()
	var out []string
	for text, err := range d.Fragments() {
		require.NoError(t, err)
		out = append(out, text)
	}
	return out
}

func TestDecoder_SimpleStream(t *testing.T) {
	input := frame("Hello") + frame(", ") + frame("world") + "data: [DONE]\n\n"
	b := body(input)

	got := collect(t, NewDecoder(b, zaptest.NewLogger(t)))

	assert.Equal(t, []string{"Hello", ", ", "world"}, got)
	assert.Equal(t, int32(1), b.closed.Load())
}

func TestDecoder_ChunkBoundaryIndependence(t *testing.T) {
	input := frame("Start with ") + frame("a repo.") + frame("") + "data: [DONE]\n\n"

	whole := collect(t, NewDecoder(body(input), nil))

	readers := map[string]io.Reader{
		"one byte": iotest.OneByteReader(strings.NewReader(input)),
		"half":     iotest.HalfReader(strings.NewReader(input)),
		"data+eof": iotest.DataErrReader(strings.NewReader(input)),
	}
	for name, r := range readers {
		t.Run(name, func(t *testing.T) {
			got := collect(t, NewDecoder(io.NopCloser(r), nil))
			assert.Equal(t, whole, got)
			assert.Equal(t, "Start with a repo.", strings.Join(got, ""))
		})
	}
}

func TestDecoder_StopsAtDone(t *testing.T) {
	input := frame("kept") + "data: [DONE]\n\n" + frame("ignored") + "garbage that is never parsed"

	got := collect(t, NewDecoder(body(input), nil))

	assert.Equal(t, []string{"kept"}, got)
}

func TestDecoder_NextAfterDoneKeepsReturningEOF(t *testing.T) {
	d := NewDecoder(body(frame("x")+"data: [DONE]\n\n"), nil)
	defer d.Close()

	text, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, "x", text)

	for range 3 {
		_, err = d.Next()
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestDecoder_EndOfBodyWithoutDone(t *testing.T) {
	// final event has no trailing blank line
	input := frame("a") + `data: {"choices":[{"delta":{"content":"b"}}]}`

	got := collect(t, NewDecoder(body(input), nil))

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestDecoder_CRLFAndNoSpace(t *testing.T) {
	input := "data:{\"choices\":[{\"delta\":{\"content\":\"one\"}}]}\r\n\r\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"two\"}}]}\r\n\r\n" +
		"data:[DONE]\r\n\r\n"

	got := collect(t, NewDecoder(body(input), nil))

	assert.Equal(t, []string{"one", "two"}, got)
}

func TestDecoder_MultiLineData(t *testing.T) {
	input := "data: {\"choices\":\n" +
		"data: [{\"delta\":{\"content\":\"joined\"}}]}\n\n" +
		"data: [DONE]\n\n"

	got := collect(t, NewDecoder(body(input), nil))

	assert.Equal(t, []string{"joined"}, got)
}

func TestDecoder_IgnoresCommentsAndOtherFields(t *testing.T) {
	input := ": keep-alive\n\n" +
		"event: message\nid: 7\n" + frame("hi") +
		"retry: 1000\n\n" +
		"data: [DONE]\n\n"

	got := collect(t, NewDecoder(body(input), nil))

	assert.Equal(t, []string{"hi"}, got)
}

func TestDecoder_SkipsMalformedFrameWithWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	input := frame("before") + "data: {not json\n\n" + frame("after") + "data: [DONE]\n\n"

	got := collect(t, NewDecoder(body(input), zap.New(core)))

	assert.Equal(t, []string{"before", "after"}, got)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "skipping malformed stream frame", logs.All()[0].Message)
}

func TestDecoder_SkipsEmptyDeltasAndRoleFrames(t *testing.T) {
	input := `data: {"choices":[{"delta":{"role":"assistant"}}]}` + "\n\n" +
		frame("") +
		frame("text") +
		`data: {"choices":[{"delta":{},"finish_reason":"stop"}]}` + "\n\n" +
		"data: [DONE]\n\n"

	got := collect(t, NewDecoder(body(input), nil))

	assert.Equal(t, []string{"text"}, got)
}

func TestDecoder_BreakClosesBody(t *testing.T) {
	b := body(frame("a") + frame("b") + frame("c"))
	d := NewDecoder(b, nil)

	for text := range d.Fragments() {
		assert.Equal(t, "a", text)
		break
	}

	assert.Equal(t, int32(1), b.closed.Load())
	require.NoError(t, d.Close())
	assert.Equal(t, int32(1), b.closed.Load(), "close is idempotent")
}

func TestDecoder_ReadErrorIsYielded(t *testing.T) {
	boom := errors.New("connection reset")
	r := io.MultiReader(strings.NewReader(frame("partial")), iotest.ErrReader(boom))

	var got []string
	var gotErr error
	for text, err := range NewDecoder(io.NopCloser(r), nil).Fragments() {
		if err != nil {
			gotErr = err
			continue
		}
		got = append(got, text)
	}

	assert.Equal(t, []string{"partial"}, got)
	assert.ErrorIs(t, gotErr, boom)
}

func TestDecodeContext_AccumulatesText(t *testing.T) {
	b := body(frame("Build ") + frame("the MVP.") + "data: [DONE]\n\n")
	var seen []string

	text, err := DecodeContext(context.Background(), b, nil, func(s string) { seen = append(seen, s) })

	require.NoError(t, err)
	assert.Equal(t, "Build the MVP.", text)
	assert.Equal(t, []string{"Build ", "the MVP."}, seen)
	assert.Equal(t, int32(1), b.closed.Load())
}

func TestDecodeContext_CancelUnblocksRead(t *testing.T) {
	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		io.WriteString(pw, frame("first"))
		// the writer then stalls until the reader side is closed
	}()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	first := make(chan struct{})
	go func() {
		text, err := DecodeContext(ctx, pr, nil, func(string) { close(first) })
		done <- result{text, err}
	}()

	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("first fragment never arrived")
	}
	cancel()

	select {
	case r := <-done:
		assert.Equal(t, "first", r.text)
		assert.ErrorIs(t, r.err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("decode did not return after cancel")
	}
	pw.Close()
}
