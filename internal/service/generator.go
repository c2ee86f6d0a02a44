// Package service contains the business logic behind POST /generate.
//
// Generation is currently a placeholder: the generator validates the request
// and echoes the text back. Real logo generation would replace echo() without
// touching the handler or the HTTP contract.
package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fleveque/logo-generator/internal/model"
	"github.com/fleveque/logo-generator/internal/storage"
)

// ErrTextRequired is returned when the request has no text (missing, null or "").
// Callers check with errors.Is(err, ErrTextRequired).
var ErrTextRequired = errors.New("text is required")

// Outcomes lets the generator report results without importing the metrics
// package. A nil Outcomes is valid.
type Outcomes interface {
	ObserveGenerate(outcome model.GenerationOutcome)
}

// RequestMeta carries request-scoped details that end up in the history only.
// They never influence the response.
type RequestMeta struct {
	ClientIP  string
	RequestID string
}

// Generator turns a LogoRequest into a LogoResponse.
type Generator struct {
	history  storage.GenerationRepository // nil when history is disabled
	outcomes Outcomes                     // nil when metrics are disabled
	logger   *zap.Logger
}

// NewGenerator creates a Generator. history and outcomes may be nil.
func NewGenerator(history storage.GenerationRepository, outcomes Outcomes, logger *zap.Logger) *Generator {
	return &Generator{
		history:  history,
		outcomes: outcomes,
		logger:   logger,
	}
}

// Generate validates req and returns the echo response. The only error it
// returns is ErrTextRequired; recording failures are logged and swallowed so
// identical requests always get identical responses.
func (g *Generator) Generate(ctx context.Context, req model.LogoRequest, meta RequestMeta) (*model.LogoResponse, error) {
	text := req.TextValue()
	if text == "" {
		g.record(ctx, 0, model.OutcomeRejected, meta)
		return nil, ErrTextRequired
	}

	resp := echo(text)
	g.record(ctx, len(text), model.OutcomeOK, meta)
	return resp, nil
}

// echo is the placeholder for logo generation.
func echo(text string) *model.LogoResponse {
	return &model.LogoResponse{Echo: text}
}

func (g *Generator) record(ctx context.Context, textLen int, outcome model.GenerationOutcome, meta RequestMeta) {
	if g.outcomes != nil {
		g.outcomes.ObserveGenerate(outcome)
	}
	if g.history == nil {
		return
	}

	gen := &model.Generation{
		TextLen:   textLen,
		Outcome:   outcome,
		ClientIP:  meta.ClientIP,
		RequestID: meta.RequestID,
	}
	if err := g.history.Create(ctx, gen); err != nil {
		g.logger.Error("recording generation",
			zap.String("request_id", meta.RequestID),
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)
	}
}
