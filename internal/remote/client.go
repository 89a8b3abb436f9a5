package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/synqs/internal/ir"
	"github.com/roach88/synqs/internal/job"
)

// Credentials authenticate every request.
type Credentials struct {
	Username string
	Password string
}

// Client talks to one remote simulator endpoint.
type Client struct {
	baseURL string
	creds   Credentials
	http    *http.Client
	logger  *zap.Logger
	metrics *Metrics
	policy  PollPolicy
	sleeper Sleeper
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client. The default has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the counters updated by each call.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithPollPolicy sets the wait between status checks.
func WithPollPolicy(p PollPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithSleeper sets how the client waits between status checks.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleeper = s }
}

// New creates a client for the service at baseURL, e.g.
// "http://qsimsim.synqs.org/fermions/". A missing trailing slash is added.
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL: baseURL,
		creds:   creds,
		http:    &http.Client{},
		logger:  zap.NewNop(),
		policy:  FixedInterval(DefaultPollInterval),
		sleeper: TimerSleeper{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Submit posts the payload and returns the job handle.
func (c *Client) Submit(ctx context.Context, p job.Payload) (Handle, error) {
	h, err := c.submit(ctx, p)
	if err != nil {
		c.metrics.failed(err)
		c.logger.Warn("job submission failed", zap.String("url", c.baseURL), zap.Error(err))
		return "", err
	}
	c.metrics.submitted()
	c.logger.Info("job submitted",
		zap.String("job_id", string(h)),
		zap.Int("instructions", len(p.Instructions)),
		zap.Int("shots", p.Shots))
	return h, nil
}

func (c *Client) submit(ctx context.Context, p job.Payload) (Handle, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", ir.Wrap(ir.ErrCodeSubmission, err, "encode payload")
	}

	form := c.form(string(body))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"post_job/", strings.NewReader(form.Encode()))
	if err != nil {
		return "", ir.Wrap(ir.ErrCodeSubmission, err, "build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	raw, code, err := c.do(req)
	if err != nil {
		return "", ir.Wrap(ir.ErrCodeSubmission, err, "post job")
	}
	if code >= 300 {
		return "", &ir.Error{
			Code:    ir.ErrCodeSubmission,
			Message: fmt.Sprintf("post job failed with status %d", code),
			Detail:  string(raw),
		}
	}

	var resp struct {
		JobID json.RawMessage `json:"job_id"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &ir.Error{Code: ir.ErrCodeSubmission, Message: "undecodable submission response", Detail: string(raw), Err: err}
	}
	id, err := jobIDText(resp.JobID)
	if err != nil {
		return "", &ir.Error{Code: ir.ErrCodeSubmission, Message: "undecodable job_id", Detail: string(raw), Err: err}
	}
	if id == "" {
		return "", &ir.Error{Code: ir.ErrCodeSubmission, Message: "submission response has no job_id", Detail: string(raw)}
	}
	return Handle(id), nil
}

// jobIDText returns a job id as opaque text. Services send strings or
// numbers; a number keeps its literal form.
func jobIDText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("job_id %s is neither a string nor a number", raw)
	}
	return n.String(), nil
}

// PollStatus checks the job status once. An ERROR status is returned
// together with a REMOTE_JOB_FAILED error carrying the server detail.
func (c *Client) PollStatus(ctx context.Context, h Handle) (Status, error) {
	c.metrics.polled()
	status, err := c.pollStatus(ctx, h)
	if err != nil {
		c.metrics.failed(err)
		c.logger.Warn("job status failed", zap.String("job_id", string(h)), zap.Error(err))
		return status, err
	}
	c.logger.Debug("job status", zap.String("job_id", string(h)), zap.String("status", string(status)))
	return status, nil
}

func (c *Client) pollStatus(ctx context.Context, h Handle) (Status, error) {
	raw, err := c.get(ctx, h, "get_job_status/")
	if err != nil {
		return "", err
	}

	var resp struct {
		Status string `json:"status"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &ir.Error{Code: ir.ErrCodeRemoteJob, Message: "undecodable status response", JobID: string(h), Detail: string(raw), Err: err}
	}

	status := Status(resp.Status)
	switch {
	case status == StatusError:
		return status, ir.NewRemoteJobError(string(h), "remote job failed", resp.Detail)
	case !status.Valid():
		return "", ir.NewRemoteJobError(string(h), fmt.Sprintf("unknown job status %q", resp.Status), resp.Detail)
	}
	return status, nil
}

// AwaitCompletion polls until the job is DONE, sleeping between checks
// according to the poll policy, and returns the last status seen. A failed
// job returns StatusError with a REMOTE_JOB_FAILED error. There is no
// timeout of its own; cancel ctx to stop waiting. The remote job is not
// cancelled.
func (c *Client) AwaitCompletion(ctx context.Context, h Handle) (Status, error) {
	for attempt := 1; ; attempt++ {
		status, err := c.PollStatus(ctx, h)
		if err != nil || status.Terminal() {
			return status, err
		}
		if err := c.sleeper.Sleep(ctx, c.policy.Delay(attempt)); err != nil {
			return status, fmt.Errorf("await job %s: %w", h, err)
		}
	}
}

// FetchResult returns the per-shot memory records of a finished job.
func (c *Client) FetchResult(ctx context.Context, h Handle) ([]string, error) {
	memory, err := c.fetchResult(ctx, h)
	if err != nil {
		c.metrics.failed(err)
		c.logger.Warn("job result failed", zap.String("job_id", string(h)), zap.Error(err))
		return nil, err
	}
	c.metrics.fetched()
	c.logger.Debug("job result fetched", zap.String("job_id", string(h)), zap.Int("shots", len(memory)))
	return memory, nil
}

func (c *Client) fetchResult(ctx context.Context, h Handle) ([]string, error) {
	raw, err := c.get(ctx, h, "get_job_result/")
	if err != nil {
		return nil, err
	}

	var resp struct {
		Results []struct {
			Data struct {
				Memory *[]string `json:"memory"`
			} `json:"data"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &ir.Error{Code: ir.ErrCodeRemoteJob, Message: "undecodable result response", JobID: string(h), Detail: string(raw), Err: err}
	}
	if len(resp.Results) == 0 || resp.Results[0].Data.Memory == nil {
		return nil, ir.NewRemoteJobError(string(h), "result has no memory", string(raw))
	}
	return *resp.Results[0].Data.Memory, nil
}

// get issues a job-scoped GET. Failures are REMOTE_JOB_FAILED.
func (c *Client) get(ctx context.Context, h Handle, endpoint string) ([]byte, error) {
	ref, err := json.Marshal(map[string]string{"job_id": string(h)})
	if err != nil {
		return nil, ir.Wrap(ir.ErrCodeRemoteJob, err, "encode job reference")
	}

	u := c.baseURL + endpoint + "?" + c.form(string(ref)).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &ir.Error{Code: ir.ErrCodeRemoteJob, Message: "build request", JobID: string(h), Err: err}
	}

	raw, code, err := c.do(req)
	if err != nil {
		return nil, &ir.Error{Code: ir.ErrCodeRemoteJob, Message: "request " + endpoint, JobID: string(h), Err: err}
	}
	if code >= 300 {
		return nil, &ir.Error{
			Code:    ir.ErrCodeRemoteJob,
			Message: fmt.Sprintf("%s failed with status %d", endpoint, code),
			JobID:   string(h),
			Detail:  string(raw),
		}
	}
	return raw, nil
}

func (c *Client) form(jsonField string) url.Values {
	return url.Values{
		"json":     {jsonField},
		"username": {c.creds.Username},
		"password": {c.creds.Password},
	}
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return raw, resp.StatusCode, nil
}
