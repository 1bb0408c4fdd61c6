package feedback

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

const (
	// DefaultModel is used when no feedback model is configured.
	DefaultModel = "claude-sonnet-4-5"
	// maxTokens bounds the feedback length.
	maxTokens = 2048
)

// Generator produces free text for a prompt.
type Generator interface {
	Complete(ctx context.Context, prompt string) (text string, err error)
}

// Client is a Generator backed by the Anthropic Messages API.
type Client struct {
	api   anthropic.Client
	model string
}

// NewClient creates a new Claude API client. Extra options (base URL, retries)
// are passed through to the SDK.
func NewClient(apiKey, model string, opts ...option.RequestOption) (client *Client) {
	if model == "" {
		model = DefaultModel
	}

	requestOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithRequestTimeout(120 * time.Second),
	}
	requestOpts = append(requestOpts, opts...)

	client = &Client{
		api:   anthropic.NewClient(requestOpts...),
		model: model,
	}
	return client
}

// Model returns the model the client sends requests to.
func (c *Client) Model() (model string) {
	model = c.model
	return model
}

// Complete sends prompt as a single user message and joins the text blocks of the reply.
func (c *Client) Complete(ctx context.Context, prompt string) (text string, err error) {
	var msg *anthropic.Message
	msg, err = c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		err = errors.Wrap(err, "feedback request failed")
		return text, err
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text = strings.TrimSpace(sb.String())

	return text, err
}
