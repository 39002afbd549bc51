package llm

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Prober issues a single chat-completion request and returns the raw response.
type Prober interface {
	Probe(ctx context.Context, req Request) (*Result, error)
}

// Result is one successful chat-completion exchange.
type Result struct {
	// Raw is the response body exactly as the server sent it.
	Raw        string
	Completion *openai.ChatCompletion
	Duration   time.Duration
}

// ProberOptions configures the chat-completion prober.
type ProberOptions struct {
	Client *Client
}

type chatProber struct {
	client *Client
	logger *logrus.Logger
	now    func() time.Time
}

// NewProber constructs a Prober backed by the given client.
func NewProber(opts ProberOptions) (Prober, error) {
	if opts.Client == nil {
		return nil, eris.New("llm client is required")
	}

	return &chatProber{
		client: opts.Client,
		logger: opts.Client.Logger(),
		now:    time.Now,
	}, nil
}

func (p *chatProber) Probe(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fields := logrus.Fields{"model": strings.TrimSpace(req.Model), "endpoint": p.client.baseURL}
	p.logDebug(fields, "requesting chat completion")

	start := p.now()
	completion, err := p.client.chat.New(ctx, req.params())
	elapsed := p.now().Sub(start)
	if err != nil {
		classified := classify(err)
		p.logError(fields, classified, "requesting chat completion")
		return nil, classified
	}

	if completion == nil {
		err := serverError("chat completion response is empty")
		p.logError(fields, err, "processing chat completion")
		return nil, err
	}

	if len(completion.Choices) == 0 {
		err := serverError("malformed chat completion: no choices")
		p.logError(fields, err, "processing chat completion")
		return nil, err
	}

	raw := completion.RawJSON()
	if strings.TrimSpace(raw) == "" {
		encoded, marshalErr := json.Marshal(completion)
		if marshalErr != nil {
			err := &ProbeError{Kind: KindServer, Err: eris.Wrap(marshalErr, "encoding chat completion")}
			p.logError(fields, err, "processing chat completion")
			return nil, err
		}
		raw = string(encoded)
	}

	fields["completion_id"] = completion.ID
	fields["duration_ms"] = elapsed.Milliseconds()
	p.logDebug(fields, "chat completion received")

	return &Result{Raw: raw, Completion: completion, Duration: elapsed}, nil
}

func (p *chatProber) logDebug(fields logrus.Fields, message string) {
	if p.logger == nil {
		return
	}
	p.logger.WithFields(fields).Debug(message)
}

func (p *chatProber) logError(fields logrus.Fields, err error, message string) {
	if p.logger == nil || err == nil {
		return
	}

	entry := p.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Warn(message)
}
