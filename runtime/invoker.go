package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/estateflow/orchestrator/types"
	"github.com/estateflow/orchestrator/utils"
)

/**
 * AgentInvoker sends one task's resolved payload plus its
 * natural-language prompt to a downstream agent and returns the
 * structured outcome. Implementations must never return a transport
 * failure as a Go error: every failure mode at this boundary
 * (connection, non-2xx, timeout, malformed content) normalizes to the
 * {status: "error", agent, endpoint, error} record so the executor can
 * store it and move on. The error return is reserved for programmer
 * mistakes such as an unserializable payload.
 */
type AgentInvoker interface {
	Invoke(ctx context.Context, task *types.DAGTask, endpoint string, payload types.Data) (types.Data, error)
}

var _ AgentInvoker = &HTTPInvoker{}

type HTTPInvoker struct {
	client *http.Client
}

func NewHTTPInvoker() *HTTPInvoker {
	// per-call deadlines come from each task's timeout_ms
	return &HTTPInvoker{client: &http.Client{}}
}

// agentMessage is the request envelope a downstream agent receives:
// one correlation id and one text part combining prompt and payload.
type agentMessage struct {
	MessageID string `json:"message_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
}

func (h *HTTPInvoker) Invoke(ctx context.Context, task *types.DAGTask, endpoint string, payload types.Data) (types.Data, error) {
	body, err := h.buildMessage(task, payload)
	if err != nil {
		return nil, errors.Trace(err)
	}

	timeout := time.Duration(task.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	response, callErr := h.call(callCtx, endpoint, body)
	if callErr != nil {
		log.Errorf("failed to call agent %s at %s: %v", task.TaskType, endpoint, callErr)
		return types.FailedResult(types.NewInvocationError(task.TaskType, endpoint, callErr)), nil
	}

	return types.Data{
		"status":   "success",
		"agent":    task.TaskType,
		"endpoint": endpoint,
		"response": response,
	}, nil
}

func (h *HTTPInvoker) buildMessage(task *types.DAGTask, payload types.Data) ([]byte, error) {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, errors.Annotatef(err, "marshal payload for %s", task.TaskID)
	}

	text := string(raw)
	if task.AgentPrompt != "" {
		text = fmt.Sprintf("%s\n\nPayload: %s", task.AgentPrompt, text)
	}

	return utils.Serialize(&agentMessage{
		MessageID: uuid.NewString(),
		Role:      "user",
		Content:   text,
	})
}

func (h *HTTPInvoker) call(ctx context.Context, endpoint string, body []byte) (types.Data, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Trace(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("agent returned status %d: %s", resp.StatusCode, string(raw))
	}

	response := types.Data{}
	if err := utils.Unserialize(raw, &response); err != nil {
		return nil, errors.Annotatef(err, "malformed agent response")
	}

	// agents often wrap their structured result in a JSON-encoded
	// content string; unwrap it when it parses, pass it through as
	// opaque text when it does not.
	if content, ok := response["content"].(string); ok {
		var parsed any
		if err := json.Unmarshal([]byte(content), &parsed); err == nil {
			response["content"] = parsed
		}
	}
	return response, nil
}
