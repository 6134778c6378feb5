// Package kling talks to the Kling AI virtual try-on API: it signs requests,
// submits jobs and polls them until the remote side reports a terminal status.
package kling

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/fitroom/internal/logging"
)

const (
	endpoint         = "/v1/images/kolors-virtual-try-on"
	DefaultModelName = "kolors-virtual-try-on-v1-5"
	DefaultInterval  = 5 * time.Second

	defaultFailMessage = "Task failed with no specific reason."
	noImagesMessage    = "task succeeded without result images"
	maxErrorBody       = 4 << 10
)

type ClientConfig struct {
	BaseURL     string
	ModelName   string
	CallbackURL string
	Timeout     time.Duration
	// SubmitRate limits job submissions per second; 0 means unlimited.
	SubmitRate float64
	HTTPClient *http.Client
}

type PollOptions struct {
	Interval time.Duration
	// MaxAttempts bounds the number of status queries; 0 polls until the job
	// reaches a terminal status or ctx is done.
	MaxAttempts int
}

type Client struct {
	baseURL     string
	modelName   string
	callbackURL string
	http        *http.Client
	signer      *Signer
	limiter     *rate.Limiter
	sleeper     Sleeper
	log         logging.Logger
}

func NewClient(cfg ClientConfig, signer *Signer, log logging.Logger) *Client {
	if log == nil {
		log = logging.Nop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	model := cfg.ModelName
	if model == "" {
		model = DefaultModelName
	}

	limit := rate.Inf
	if cfg.SubmitRate > 0 {
		limit = rate.Limit(cfg.SubmitRate)
	}

	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		modelName:   model,
		callbackURL: cfg.CallbackURL,
		http:        httpClient,
		signer:      signer,
		limiter:     rate.NewLimiter(limit, 1),
		sleeper:     TimerSleeper{},
		log:         log,
	}
}

// WithSleeper replaces the delay used between polls.
func (c *Client) WithSleeper(s Sleeper) *Client {
	c.sleeper = s
	return c
}

// Submit creates a try-on job for the encoded human and garment images and
// returns the remote task id. garment may be nil.
func (c *Client) Submit(ctx context.Context, human, garment []byte) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req := createRequest{
		HumanImage:  base64.StdEncoding.EncodeToString(human),
		ModelName:   c.modelName,
		CallbackURL: c.callbackURL,
	}
	if garment != nil {
		req.ClothImage = base64.StdEncoding.EncodeToString(garment)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	status, raw, err := c.do(ctx, http.MethodPost, c.baseURL+endpoint, body)
	if err != nil {
		return "", err
	}

	if status < 200 || status > 299 {
		msg := remoteMessage(raw)
		c.log.Warn(ctx, "submit rejected", "status", status, "message", msg)
		return "", rejected(status, msg)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", rejected(status, "malformed response: "+err.Error())
	}
	if env.Code != 0 {
		c.log.Warn(ctx, "submit rejected", "code", env.Code, "message", env.Message)
		return "", rejected(0, env.Message)
	}
	if env.Data == nil || env.Data.TaskID == "" {
		return "", rejected(0, "response missing task_id")
	}

	c.log.Info(ctx, "try-on job submitted", "task_id", env.Data.TaskID, "model", c.modelName)

	return env.Data.TaskID, nil
}

// Status performs a single status query for taskID.
func (c *Client) Status(ctx context.Context, taskID string) (StatusResult, error) {
	status, raw, err := c.do(ctx, http.MethodGet, c.baseURL+endpoint+"/"+taskID, nil)
	if err != nil {
		return StatusResult{}, err
	}

	if status < 200 || status > 299 {
		return StatusResult{}, unreachable(status, remoteMessage(raw))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return StatusResult{}, unreachable(0, "malformed status response: "+err.Error())
	}
	if env.Code != 0 {
		return StatusResult{}, rejected(0, env.Message)
	}
	if env.Data == nil {
		return StatusResult{}, unreachable(0, "status response without data")
	}

	return decodeStatus(taskID, env.Data), nil
}

func decodeStatus(taskID string, d *taskData) StatusResult {
	res := StatusResult{TaskID: taskID, Status: d.TaskStatus}

	switch {
	case strings.EqualFold(d.TaskStatus, "succeed"):
		if d.TaskResult == nil || len(d.TaskResult.Images) == 0 || d.TaskResult.Images[0].URL == "" {
			res.State = StateFailed
			res.Message = noImagesMessage
			return res
		}
		res.State = StateSucceeded
		res.URL = d.TaskResult.Images[0].URL
	case strings.EqualFold(d.TaskStatus, "failed"):
		res.State = StateFailed
		res.Message = d.TaskStatusMsg
		if res.Message == "" {
			res.Message = defaultFailMessage
		}
	default:
		res.State = StateInProgress
	}

	return res
}

// Poll queries the task until it succeeds or fails, sleeping opts.Interval
// between in-progress observations. Transport failures are returned at once
// without retrying.
func (c *Client) Poll(ctx context.Context, taskID string, opts PollOptions) (string, error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		res, err := c.Status(ctx, taskID)
		if err != nil {
			c.log.Warn(ctx, "status query failed", "task_id", taskID, "attempt", attempt, "error", err)
			return "", err
		}

		switch res.State {
		case StateSucceeded:
			c.log.Info(ctx, "try-on job succeeded", "task_id", taskID, "attempts", attempt)
			return res.URL, nil
		case StateFailed:
			c.log.Warn(ctx, "try-on job failed", "task_id", taskID, "message", res.Message)
			return "", jobFailed(res.Message)
		}

		c.log.Debug(ctx, "try-on job in progress", "task_id", taskID, "status", res.Status, "attempt", attempt)

		if opts.MaxAttempts > 0 && attempt >= opts.MaxAttempts {
			return "", fmt.Errorf("%w: task %s after %d attempts", ErrPollExhausted, taskID, attempt)
		}

		if err := c.sleeper.Sleep(ctx, opts.Interval); err != nil {
			return "", err
		}
	}
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	token, err := c.signer.Sign()
	if err != nil {
		return 0, nil, fmt.Errorf("sign request: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, c.mapError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, c.mapError(ctx, err)
	}

	return resp.StatusCode, raw, nil
}

func (c *Client) mapError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return unreachable(0, err.Error())
}

// remoteMessage extracts "message" from an error body, falling back to a
// truncated copy of the raw body.
func remoteMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	if len(raw) > maxErrorBody {
		raw = raw[:maxErrorBody]
	}
	return strings.TrimSpace(string(raw))
}
