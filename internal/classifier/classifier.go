// Package classifier turns a free-text task description into a workflow
// selection with one completion round-trip to the connected client, then
// activates the selection.
package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/activation"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/telemetry"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/internal/validation"
	"github.com/cameroncooke/XcodeBuildMCP-sub013/pkg/schema"
)

// DefaultMaxTokens is the completion token budget when none is configured.
const DefaultMaxTokens = 200

// CompletionRequest is a single user-message completion.
type CompletionRequest struct {
	Prompt    string
	MaxTokens int
}

// CompletionReply holds the text blocks of a completion.
type CompletionReply struct {
	Blocks []string
}

// Text concatenates the reply blocks.
func (r *CompletionReply) Text() string {
	if r == nil {
		return ""
	}
	return strings.Join(r.Blocks, "")
}

// CompletionClient asks the connected client for a completion.
type CompletionClient interface {
	SupportsCompletion(ctx context.Context) bool
	Complete(ctx context.Context, req CompletionRequest) (*CompletionReply, error)
}

// Kind classifies a Response.
type Kind string

const (
	KindActivated         Kind = "activated"
	KindClarification     Kind = "clarification"
	KindCapabilityMissing Kind = "capability_missing"
	KindValidation        Kind = "validation"
	KindError             Kind = "error"
)

// Response is the result of one classification.
type Response struct {
	Kind Kind
	Text string
	// Selected are the valid workflow ids chosen by the completion.
	Selected []string
	// Unknown are ids in the reply that are not in the registry.
	Unknown []string
	Outcome *activation.Outcome
	Err     error
}

// IsError reports whether the response should be surfaced as a tool error.
func (r *Response) IsError() bool {
	return r.Kind == KindError || r.Kind == KindValidation
}

// Options configures a Classifier.
type Options struct {
	MaxTokens int
	Logger    *slog.Logger
	Telemetry *telemetry.Telemetry
	Validator validation.Validator
}

// Classifier resolves tasks to workflows and drives the activator.
type Classifier struct {
	activator *activation.Activator
	client    CompletionClient
	maxTokens int
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
	validator validation.Validator
}

// New creates a Classifier.
func New(act *activation.Activator, client CompletionClient, opts Options) *Classifier {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Validator == nil {
		opts.Validator = validation.NewJSONSchemaValidator()
	}
	return &Classifier{
		activator: act,
		client:    client,
		maxTokens: opts.MaxTokens,
		logger:    opts.Logger,
		telemetry: opts.Telemetry,
		validator: opts.Validator,
	}
}

// Classify selects workflows for task and activates them on server.
func (c *Classifier) Classify(ctx context.Context, server activation.ToolServer, task string, additive bool) *Response {
	start := time.Now()
	ctx, span := c.telemetry.Start(ctx, "classifier.classify",
		attribute.Bool("classifier.additive", additive))

	resp := c.classify(ctx, server, strings.TrimSpace(task), additive)

	span.SetAttributes(attribute.String("classifier.kind", string(resp.Kind)))
	telemetry.End(span, resp.Err)
	c.telemetry.RecordClassification(ctx, string(resp.Kind), time.Since(start))
	c.logger.InfoContext(ctx, "task classified",
		slog.String("kind", string(resp.Kind)),
		slog.Any("selected", resp.Selected),
		slog.Any("unknown", resp.Unknown),
	)
	return resp
}

func (c *Classifier) classify(ctx context.Context, server activation.ToolServer, task string, additive bool) *Response {
	if task == "" {
		err := schema.NewError(schema.ErrCodeValidation, "taskDescription must not be empty")
		return &Response{Kind: KindValidation, Text: "Please describe the task you want to accomplish.", Err: err}
	}

	if c.client == nil || !c.client.SupportsCompletion(ctx) {
		err := schema.NewError(schema.ErrCodeCapabilityMissing, "client does not support sampling")
		return &Response{
			Kind: KindCapabilityMissing,
			Text: "Your client does not support sampling, so the task cannot be classified automatically. " +
				"Call manage_workflows with explicit workflowIds instead. Available workflows: " +
				strings.Join(c.activator.Registry().IDs(), ", ") + ".",
			Err: err,
		}
	}

	prompt := BuildPrompt(task, c.activator.Registry().Descriptors())
	reply, err := c.client.Complete(ctx, CompletionRequest{Prompt: prompt, MaxTokens: c.maxTokens})
	if err != nil {
		perr := schema.NewErrorf(schema.ErrCodeCompletionFailed, "completion request failed: %v", err).WithCause(err)
		c.logger.WarnContext(ctx, "completion request failed", slog.String("error", err.Error()))
		return &Response{
			Kind: KindError,
			Text: fmt.Sprintf("Could not classify the task: %v. Try manage_workflows with explicit workflowIds.", err),
			Err:  perr,
		}
	}

	text := reply.Text()
	ids, err := ParseReply(c.validator, text)
	if err != nil {
		return &Response{
			Kind: KindClarification,
			Text: fmt.Sprintf("I could not understand the workflow selection (%q). "+
				"Please describe the task in more detail, or call manage_workflows with explicit workflowIds.", Excerpt(text)),
			Err: err,
		}
	}

	reg := c.activator.Registry()
	resp := &Response{}
	for _, id := range ids {
		if reg.Has(id) {
			resp.Selected = append(resp.Selected, id)
		} else {
			resp.Unknown = append(resp.Unknown, id)
		}
	}
	if len(resp.Selected) == 0 {
		resp.Kind = KindClarification
		resp.Text = "No matching workflows were found for that task. Please clarify the project type " +
			"(.xcworkspace, .xcodeproj or Swift package) and the target platform, or call manage_workflows."
		if len(resp.Unknown) > 0 {
			resp.Text += fmt.Sprintf(" Ignored unknown workflows: %s.", strings.Join(resp.Unknown, ", "))
		}
		return resp
	}

	out := c.activator.Run(ctx, server, activation.Request{
		IDs:      resp.Selected,
		Additive: additive,
		Source:   schema.SourceClassifier,
		Task:     task,
	})
	resp.Outcome = out
	resp.Err = out.Err()
	if len(out.Activated) == 0 {
		resp.Kind = KindError
	} else {
		resp.Kind = KindActivated
	}
	resp.Text = out.Summary()
	if len(resp.Unknown) > 0 {
		resp.Text += fmt.Sprintf("\nIgnored unknown workflows: %s.", strings.Join(resp.Unknown, ", "))
	}
	return resp
}
