// Package stream decodes server-sent chat-completion streams into text
// fragments.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const doneSentinel = "[DONE]"

// chunk is the subset of a streamed chat-completion chunk we read.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Decoder turns an SSE body into successive content deltas. It is not safe
// for concurrent use, except for Close.
type Decoder struct {
	body   io.ReadCloser
	r      *bufio.Reader
	logger *zap.Logger

	data []string // data lines of the event being assembled
	done bool

	closeOnce sync.Once
	closeErr  error
}

// NewDecoder wraps body. The decoder owns body from here on.
func NewDecoder(body io.ReadCloser, logger *zap.Logger) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{
		body:   body,
		r:      bufio.NewReader(body),
		logger: logger,
	}
}

// Next returns the next non-empty text delta. It returns io.EOF once the
// [DONE] sentinel is seen or the body ends; nothing after [DONE] is read.
func (d *Decoder) Next() (string, error) {
	for !d.done {
		line, readErr := d.r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return "", readErr
		}
		eof := errors.Is(readErr, io.EOF)

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			// blank line ends an event; at EOF flush whatever is pending
			if text, ok := d.dispatch(); ok {
				if eof {
					d.done = true
				}
				return text, nil
			}
			if eof {
				d.done = true
			}
			continue
		}

		d.field(line)
		if eof {
			d.done = true
			if text, ok := d.dispatch(); ok {
				return text, nil
			}
		}
	}
	return "", io.EOF
}

// field records one non-blank SSE line. Only data fields matter here;
// comments, event names and ids are ignored.
func (d *Decoder) field(line string) {
	if strings.HasPrefix(line, ":") {
		return
	}
	name, value, found := strings.Cut(line, ":")
	if name != "data" {
		return
	}
	if found {
		value = strings.TrimPrefix(value, " ")
	}
	d.data = append(d.data, value)
}

// dispatch decodes the pending event. It reports false when the event
// yields no text.
func (d *Decoder) dispatch() (string, bool) {
	if len(d.data) == 0 {
		return "", false
	}
	payload := strings.Join(d.data, "\n")
	d.data = d.data[:0]

	if strings.TrimSpace(payload) == doneSentinel {
		d.done = true
		return "", false
	}

	var c chunk
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		d.logger.Warn("skipping malformed stream frame",
			zap.Error(err),
			zap.Int("bytes", len(payload)),
		)
		return "", false
	}

	var b strings.Builder
	for _, choice := range c.Choices {
		b.WriteString(choice.Delta.Content)
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// Fragments returns a single-use sequence over the remaining deltas. The
// decoder is closed when the sequence ends or the consumer stops early. A
// read error is yielded once as the final element.
func (d *Decoder) Fragments() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		defer d.Close()
		for {
			text, err := d.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

// Close releases the underlying body. Safe to call more than once and from
// another goroutine to abort a blocked read.
func (d *Decoder) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.body.Close()
	})
	return d.closeErr
}

// DecodeContext drains body, calling fn with each delta, and returns the
// accumulated text. The body is closed on return and as soon as ctx is
// cancelled, which unblocks any pending read.
func DecodeContext(ctx context.Context, body io.ReadCloser, logger *zap.Logger, fn func(string)) (string, error) {
	dec := NewDecoder(body, logger)
	defer dec.Close()

	stop := context.AfterFunc(ctx, func() { dec.Close() })
	defer stop()

	var buf bytes.Buffer
	for text, err := range dec.Fragments() {
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return buf.String(), ctxErr
			}
			return buf.String(), err
		}
		buf.WriteString(text)
		if fn != nil {
			fn(text)
		}
	}
	if err := ctx.Err(); err != nil {
		return buf.String(), err
	}
	return buf.String(), nil
}
