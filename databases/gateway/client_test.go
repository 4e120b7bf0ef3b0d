package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rlch/ngspec"
	"github.com/rlch/ngspec/importspec"
)

const baseURL = "http://gateway.test"

func newTestClient(t *testing.T, opts ...Option) (*Client, *httpmock.MockTransport) {
	t.Helper()

	mock := httpmock.NewMockTransport()
	conn := ngspec.ConnectionConfig{User: "root", Password: "nebula", Address: []string{"graphd:9669"}}

	opts = append([]Option{WithTransport(mock), WithRetry(0, time.Millisecond)}, opts...)

	return New(baseURL, conn, opts...), mock
}

func jsonBody(t *testing.T, req *http.Request) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(req.Body).Decode(&body))

	return body
}

func okConnect(t *testing.T, mock *httpmock.MockTransport) {
	t.Helper()

	mock.RegisterResponder(http.MethodPost, baseURL+pathConnect, func(req *http.Request) (*http.Response, error) {
		body := jsonBody(t, req)
		assert.Equal(t, "root", body["username"])
		assert.Equal(t, "nebula", body["password"])
		assert.Equal(t, "graphd", body["address"])
		assert.InDelta(t, 9669, body["port"], 0)

		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"code": 0, "message": "Login successfully"})
	})
}

func TestClient_Execute(t *testing.T) {
	t.Parallel()

	c, mock := newTestClient(t)
	okConnect(t, mock)

	mock.RegisterResponder(http.MethodPost, baseURL+pathExec, func(req *http.Request) (*http.Response, error) {
		body := jsonBody(t, req)
		assert.Equal(t, "LOOKUP ON `player` | LIMIT 100", body["gql"])
		assert.Equal(t, []any{}, body["paramList"])

		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
			"code":    0,
			"message": "",
			"data": map[string]any{
				"headers":  []string{"VertexID"},
				"tables":   []map[string]any{{"VertexID": "p1"}, {"VertexID": "p2"}},
				"timeCost": 1234,
			},
		})
	})

	rs, err := c.Execute(context.Background(), "LOOKUP ON `player` | LIMIT 100")
	require.NoError(t, err)

	assert.Equal(t, []string{"VertexID"}, rs.Headers)
	assert.Len(t, rs.Rows, 2)
	assert.Equal(t, "p2", rs.Rows[1]["VertexID"])
	assert.Equal(t, int64(1234), rs.TimeCost)

	_, err = c.Execute(context.Background(), "LOOKUP ON `player` | LIMIT 100")
	require.NoError(t, err)

	info := mock.GetCallCountInfo()
	assert.Equal(t, 1, info["POST "+baseURL+pathConnect])
	assert.Equal(t, 2, info["POST "+baseURL+pathExec])
}

func TestClient_ExecuteQueryFailed(t *testing.T) {
	t.Parallel()

	c, mock := newTestClient(t)
	okConnect(t, mock)

	mock.RegisterResponder(http.MethodPost, baseURL+pathExec,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"code": -1, "message": "SemanticError: No schema found for `x'"}))

	_, err := c.Execute(context.Background(), "FETCH PROP ON x 1 YIELD vertex as v")
	require.ErrorIs(t, err, ngspec.ErrQueryFailed)
	assert.Contains(t, err.Error(), "SemanticError")
}

func TestClient_ConnectErrors(t *testing.T) {
	t.Parallel()

	t.Run("rejected", func(t *testing.T) {
		t.Parallel()

		c, mock := newTestClient(t)
		mock.RegisterResponder(http.MethodPost, baseURL+pathConnect,
			httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"code": -1, "message": "bad password"}))

		_, err := c.Execute(context.Background(), "SHOW SPACES")
		require.ErrorIs(t, err, ErrConnect)
		assert.NotErrorIs(t, err, ngspec.ErrQueryFailed)
	})

	t.Run("no address", func(t *testing.T) {
		t.Parallel()

		c := New(baseURL, ngspec.ConnectionConfig{User: "root"})
		assert.ErrorIs(t, c.Connect(context.Background()), ErrNoAddress)
	})

	t.Run("bad address", func(t *testing.T) {
		t.Parallel()

		c := New(baseURL, ngspec.ConnectionConfig{User: "root", Address: []string{"graphd"}})
		assert.ErrorIs(t, c.Connect(context.Background()), ErrConnect)
	})
}

func TestClient_HTTPStatus(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)

	mock := httpmock.NewMockTransport()
	c := New(baseURL, ngspec.ConnectionConfig{User: "root", Address: []string{"graphd:9669"}},
		WithTransport(mock),
		WithRetry(2, time.Millisecond),
		WithLogger(zap.New(core)),
	)

	mock.RegisterResponder(http.MethodPost, baseURL+pathConnect, httpmock.NewStringResponder(http.StatusBadGateway, "bad gateway"))

	err := c.Connect(context.Background())
	require.ErrorIs(t, err, ErrHTTPStatus)
	assert.Contains(t, err.Error(), "502")

	assert.Equal(t, 3, mock.GetCallCountInfo()["POST "+baseURL+pathConnect])
	assert.GreaterOrEqual(t, logs.FilterMessage("gateway request retry").Len(), 2)
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()

	c, mock := newTestClient(t)
	mock.RegisterResponder(http.MethodPost, baseURL+pathConnect, httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := c.Execute(context.Background(), "SHOW SPACES")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ngspec.ErrQueryFailed)
}

func TestClient_Close(t *testing.T) {
	t.Parallel()

	c, mock := newTestClient(t)

	require.NoError(t, c.Close())
	assert.Zero(t, mock.GetTotalCallCount())

	okConnect(t, mock)
	mock.RegisterResponder(http.MethodPost, baseURL+pathDisconnect,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"code": 0, "message": "disconnect successfully"}))

	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.Equal(t, 1, mock.GetCallCountInfo()["POST "+baseURL+pathDisconnect])
}

func TestClient_SubmitImport(t *testing.T) {
	t.Parallel()

	c, mock := newTestClient(t)

	spec := importspec.Compile(ngspec.Snapshot{}, importspec.Settings{Space: "basketball"})

	mock.RegisterResponder(http.MethodPost, baseURL+pathImport, func(req *http.Request) (*http.Response, error) {
		body := jsonBody(t, req)

		config, ok := body["configBody"].(map[string]any)
		require.True(t, ok, "configBody is an object")
		assert.Equal(t, "v2", config["version"])

		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"code": 0, "message": "", "data": []string{"7"}})
	})

	mock.RegisterResponder(http.MethodPost, baseURL+pathImportAction, func(req *http.Request) (*http.Response, error) {
		body := jsonBody(t, req)
		assert.Equal(t, "actionQuery", body["taskAction"])

		return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
			"code": 0,
			"data": map[string]any{
				"results": []map[string]any{{"taskID": "7", "taskStatus": "statusProcessing", "taskMessage": ""}},
				"msg":     "Task is processing",
			},
		})
	})

	id, err := c.SubmitImport(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, "7", id)

	status, err := c.ImportStatus(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, status.TaskStatus)
	assert.False(t, status.Done())

	_, err = c.ImportStatus(context.Background(), "8")
	assert.ErrorIs(t, err, ErrTaskFailed)
}

func TestClient_SubmitImportRejected(t *testing.T) {
	t.Parallel()

	c, mock := newTestClient(t)
	mock.RegisterResponder(http.MethodPost, baseURL+pathImport,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{"code": -1, "message": "config invalid"}))

	_, err := c.SubmitImport(context.Background(), &importspec.Spec{})
	require.ErrorIs(t, err, ErrTaskFailed)
	assert.Contains(t, err.Error(), "config invalid")
}

func TestRegisteredAsDatabase(t *testing.T) {
	t.Parallel()

	assert.Contains(t, ngspec.RegisteredDatabases(), ngspec.DatabaseGateway)

	_, err := ngspec.NewDatabase(ngspec.DatabaseGateway, &ngspec.Config{})
	require.ErrorIs(t, err, ErrNoGateway)

	exec, err := ngspec.NewDatabase(ngspec.DatabaseGateway, &ngspec.Config{Gateway: &ngspec.GatewayConfig{URL: baseURL}})
	require.NoError(t, err)
	assert.Equal(t, "gateway", exec.Name())
}
