package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/sprintwise/internal/domain"
)

// maxErrorBody bounds how much of a failed response is kept in HTTPError.
const maxErrorBody = 4096

// Gateway issues the three model requests used by the project wizard.
type Gateway interface {
	// GeneratePlan forces a create_project_plan call and returns its weeks.
	GeneratePlan(ctx context.Context, draft domain.ProjectDraft) (domain.ProjectPlan, error)

	// GenerateTasks forces a create_project_tasks call. planText is placed in
	// the prompt verbatim.
	GenerateTasks(ctx context.Context, planText string, projectType domain.ProjectType) ([]domain.TaskDraft, error)

	// GenerateOverview starts a streamed completion and returns the raw
	// response body. The caller owns the body and must close it.
	GenerateOverview(ctx context.Context, draft domain.ProjectDraft) (io.ReadCloser, error)
}

// Client implements Gateway against an OpenAI-compatible chat-completions API.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a gateway client. The config is owned by the caller; no
// process environment is read here.
func NewClient(cfg Config, observer Observer, opts ...Option) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	dial := time.Duration(cfg.DialTimeoutMs) * time.Millisecond
	if dial <= 0 {
		dial = 5 * time.Second
	}
	c := &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: dial,
				}).DialContext,
				ResponseHeaderTimeout: cfg.RequestTimeout(KindOverview),
			},
		},
		observer: observer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Gateway = (*Client)(nil)

func (c *Client) GeneratePlan(ctx context.Context, draft domain.ProjectDraft) (domain.ProjectPlan, error) {
	args, err := invokeTool(ctx, c, KindPlan, buildPlanPrompt(draft), planTool, validatePlanArguments)
	if err != nil {
		return nil, fmt.Errorf("generating plan: %w", err)
	}
	return domain.ProjectPlan(args.Weeks), nil
}

func (c *Client) GenerateTasks(ctx context.Context, planText string, projectType domain.ProjectType) ([]domain.TaskDraft, error) {
	args, err := invokeTool(ctx, c, KindTasks, buildTasksPrompt(planText, projectType), tasksTool, validateTaskArguments)
	if err != nil {
		return nil, fmt.Errorf("generating tasks: %w", err)
	}
	return args.Tasks, nil
}

func (c *Client) GenerateOverview(ctx context.Context, draft domain.ProjectDraft) (io.ReadCloser, error) {
	start := time.Now()
	rc := c.cfg.Request(KindOverview)
	body := chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: buildOverviewPrompt(draft)}},
		Temperature: rc.Temperature,
		MaxTokens:   rc.MaxTokens,
		Stream:      true,
	}

	resp, err := c.send(ctx, body)
	if err != nil {
		c.complete(KindOverview, start, err)
		return nil, fmt.Errorf("generating overview: %w", err)
	}
	c.complete(KindOverview, start, nil)
	return resp.Body, nil
}

// invokeTool issues a non-streaming request that forces tool and strictly
// decodes the resulting tool call's arguments into T.
func invokeTool[T any](ctx context.Context, c *Client, kind RequestKind, prompt string, tool toolDef, validate SchemaValidator[T]) (T, error) {
	start := time.Now()

	if timeout := c.cfg.RequestTimeout(kind); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rc := c.cfg.Request(kind)
	body := chatRequest{
		Model:       c.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: rc.Temperature,
		MaxTokens:   rc.MaxTokens,
		Tools:       []toolDef{tool},
		ToolChoice:  forceTool(tool.Function.Name),
	}

	var result T
	raw, err := c.doToolRequest(ctx, body, tool.Function.Name)
	if err == nil {
		result, err = DecodeArguments(raw, validate)
	}
	c.complete(kind, start, err)
	return result, err
}

func (c *Client) doToolRequest(ctx context.Context, body chatRequest, toolName string) (json.RawMessage, error) {
	resp, err := c.send(ctx, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.classify(ctx, fmt.Errorf("reading response: %w", err))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, schemaError("decoding response: %v", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, schemaError("response has no choices")
	}
	for _, call := range parsed.Choices[0].Message.ToolCalls {
		if call.Function.Name == toolName {
			return call.Function.Arguments, nil
		}
	}
	return nil, schemaError("response did not call %s", toolName)
}

// send posts body and returns the response when the status is 2xx. Any other
// status is drained into an *HTTPError.
func (c *Client) send(ctx context.Context, body chatRequest) (*http.Response, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if body.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.classify(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	return resp, nil
}

func (c *Client) classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case ctx.Err() != nil:
		return ctx.Err()
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
}

func (c *Client) complete(kind RequestKind, start time.Time, err error) {
	event := CallEvent{
		Kind:      kind,
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		event.StatusCode = httpErr.StatusCode
	}
	c.observer.OnCallComplete(event)
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &httpErr):
		return "HTTP_STATUS"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrSchemaViolation):
		return "SCHEMA_VIOLATION"
	case errors.Is(err, ErrMissingAPIKey):
		return "NO_API_KEY"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}
