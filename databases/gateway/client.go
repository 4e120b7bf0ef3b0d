// Package gateway talks to nebula-http-gateway: it runs nGQL statements in a
// gateway session and submits import tasks.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	resty "github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/rlch/ngspec"
	"github.com/rlch/ngspec/importspec"
)

// HTTP client tuning.
const (
	RequestTimeout   = 45 * time.Second
	RetryCount       = 3
	RetryWaitTime    = 100 * time.Millisecond
	RetryWaitTimeMax = 2 * time.Second
)

// Gateway endpoints.
const (
	pathConnect      = "/api-nebula/db/connect"
	pathExec         = "/api-nebula/db/exec"
	pathDisconnect   = "/api-nebula/db/disconnect"
	pathImport       = "/api-nebula/task/import"
	pathImportAction = "/api-nebula/task/import/action"
)

const actionQuery = "actionQuery"

func init() {
	ngspec.RegisterDatabase(ngspec.DatabaseGateway, func(cfg *ngspec.Config) (ngspec.Executor, error) {
		if cfg.Gateway == nil || cfg.Gateway.URL == "" {
			return nil, ErrNoGateway
		}

		return New(cfg.Gateway.URL, cfg.Connection), nil
	})
}

// Client is a nebula-http-gateway session. It implements ngspec.Executor and
// connects lazily on the first Execute.
type Client struct {
	http      *resty.Client
	conn      ngspec.ConnectionConfig
	logger    *zap.Logger
	connected bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.SetTransport(rt)
	}
}

// WithRetry overrides the retry count and the wait between attempts.
func WithRetry(count int, wait time.Duration) Option {
	return func(c *Client) {
		c.http.SetRetryCount(count)
		c.http.SetRetryWaitTime(wait)
		c.http.SetRetryMaxWaitTime(wait)
	}
}

// New creates a client for the gateway at baseURL. Sessions are opened
// against the first address of conn.
func New(baseURL string, conn ngspec.ConnectionConfig, opts ...Option) *Client {
	c := &Client{
		http:   createHTTPClient(baseURL),
		conn:   conn,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.setupLogs()

	return c
}

func createHTTPClient(baseURL string) *resty.Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetHeader("Content-Type", "application/json")
	c.SetTimeout(RequestTimeout)
	c.SetRetryCount(RetryCount)
	c.SetRetryWaitTime(RetryWaitTime)
	c.SetRetryMaxWaitTime(RetryWaitTimeMax)
	c.AddRetryCondition(func(response *resty.Response, _ error) bool {
		switch response.StatusCode() {
		case
			http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	})

	return c
}

func (c *Client) setupLogs() {
	c.http.AddRetryHook(func(response *resty.Response, err error) {
		c.logger.Warn("gateway request retry",
			zap.String("url", response.Request.URL),
			zap.Int("status", response.StatusCode()),
			zap.Error(err),
		)
	})
	c.http.OnAfterResponse(func(_ *resty.Client, response *resty.Response) error {
		c.logger.Debug("gateway response",
			zap.String("method", response.Request.Method),
			zap.String("url", response.Request.URL),
			zap.Int("status", response.StatusCode()),
			zap.Duration("time", response.Time()),
		)

		return nil
	})
}

// Name implements ngspec.Executor.
func (c *Client) Name() string {
	return ngspec.DatabaseGateway
}

// envelope is the body of every gateway response.
type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type connectRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Port     int    `json:"port"`
}

// Connect opens a gateway session. The session cookie is kept by the client.
func (c *Client) Connect(ctx context.Context) error {
	if len(c.conn.Address) == 0 {
		return ErrNoAddress
	}

	host, portStr, err := net.SplitHostPort(c.conn.Address[0])
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("%w: invalid port %q", ErrConnect, portStr)
	}

	var out envelope[any]

	err = c.post(ctx, pathConnect, connectRequest{
		Username: c.conn.User,
		Password: c.conn.Password,
		Address:  host,
		Port:     port,
	}, &out)
	if err != nil {
		return err
	}

	if out.Code != 0 {
		return fmt.Errorf("%w: %s", ErrConnect, out.Message)
	}

	c.connected = true
	c.logger.Debug("gateway session opened", zap.String("address", c.conn.Address[0]))

	return nil
}

type execRequest struct {
	GQL       string `json:"gql"`
	ParamList []any  `json:"paramList"`
}

type execData struct {
	Headers  []string         `json:"headers"`
	Tables   []map[string]any `json:"tables"`
	TimeCost int64            `json:"timeCost"`
}

// Execute implements ngspec.Executor. A non-zero response code is returned
// wrapping ngspec.ErrQueryFailed.
func (c *Client) Execute(ctx context.Context, gql string) (*ngspec.ResultSet, error) {
	if !c.connected {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}

	var out envelope[execData]

	if err := c.post(ctx, pathExec, execRequest{GQL: gql, ParamList: []any{}}, &out); err != nil {
		return nil, err
	}

	if out.Code != 0 {
		return nil, fmt.Errorf("gateway: %w: %s", ngspec.ErrQueryFailed, out.Message)
	}

	return &ngspec.ResultSet{
		Headers:  out.Data.Headers,
		Rows:     out.Data.Tables,
		TimeCost: out.Data.TimeCost,
	}, nil
}

// Close implements ngspec.Executor. It ends the session if one is open.
func (c *Client) Close() error {
	if !c.connected {
		return nil
	}

	c.connected = false

	var out envelope[any]

	return c.post(context.Background(), pathDisconnect, struct{}{}, &out)
}

type importRequest struct {
	ConfigPath string           `json:"configPath"`
	ConfigBody *importspec.Spec `json:"configBody"`
}

// SubmitImport starts an import task and returns its id.
func (c *Client) SubmitImport(ctx context.Context, spec *importspec.Spec) (string, error) {
	var out envelope[[]string]

	if err := c.post(ctx, pathImport, importRequest{ConfigBody: spec}, &out); err != nil {
		return "", err
	}

	if out.Code != 0 {
		return "", fmt.Errorf("%w: %s", ErrTaskFailed, out.Message)
	}

	if len(out.Data) == 0 {
		return "", fmt.Errorf("%w: no task id returned", ErrTaskFailed)
	}

	c.logger.Info("import task submitted", zap.String("task", out.Data[0]))

	return out.Data[0], nil
}

// Import task states reported by the gateway.
const (
	StatusProcessing = "statusProcessing"
	StatusFinished   = "statusFinished"
	StatusStopped    = "statusStoped"
	StatusAborted    = "statusAborted"
	StatusNotExisted = "statusNotExisted"
)

// TaskStatus is the state of an import task.
type TaskStatus struct {
	TaskID      string `json:"taskID"`
	TaskStatus  string `json:"taskStatus"`
	TaskMessage string `json:"taskMessage"`
}

// Done reports whether the task has stopped processing.
func (s *TaskStatus) Done() bool {
	return s.TaskStatus != StatusProcessing
}

type actionRequest struct {
	TaskID     string `json:"taskID"`
	TaskAction string `json:"taskAction"`
}

type actionData struct {
	Results []TaskStatus `json:"results"`
	Msg     string       `json:"msg"`
}

// ImportStatus queries the state of an import task.
func (c *Client) ImportStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	var out envelope[actionData]

	if err := c.post(ctx, pathImportAction, actionRequest{TaskID: taskID, TaskAction: actionQuery}, &out); err != nil {
		return nil, err
	}

	if out.Code != 0 {
		return nil, fmt.Errorf("%w: %s", ErrTaskFailed, out.Message)
	}

	for _, r := range out.Data.Results {
		if r.TaskID == taskID {
			return &r, nil
		}
	}

	return nil, fmt.Errorf("%w: task %s not found", ErrTaskFailed, taskID)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		Post(path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("gateway: %s: %w", path, err)
	}

	if res.IsError() {
		return fmt.Errorf("%w: %s %d", ErrHTTPStatus, path, res.StatusCode())
	}

	return nil
}

var _ ngspec.Executor = (*Client)(nil)
