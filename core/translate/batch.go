package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/model"
)

// DefaultBatchSize is how many lines go into one request.
const DefaultBatchSize = 8

// BlankLinePlaceholder stands in for blank lines in a batch. It is not
// mapped back after translation.
const BlankLinePlaceholder = "(空行)"

const batchSystemPrompt = "You are a professional translator."

// BatchTranslator translates lines that were already segmented by the
// caller, a fixed number of lines per request.
type BatchTranslator struct {
	llm          Completer
	batchSize    int
	placeholder  string
	defaultModel string
	temperature  float64
}

// BatchOption configures a BatchTranslator.
type BatchOption func(*BatchTranslator)

// WithBatchSize sets how many lines are sent per request.
func WithBatchSize(n int) BatchOption {
	return func(b *BatchTranslator) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithPlaceholder sets the text substituted for blank lines.
func WithPlaceholder(s string) BatchOption {
	return func(b *BatchTranslator) {
		if s != "" {
			b.placeholder = s
		}
	}
}

// WithBatchModel sets the model used when a call does not name one.
func WithBatchModel(m string) BatchOption {
	return func(b *BatchTranslator) {
		if m != "" {
			b.defaultModel = m
		}
	}
}

// WithBatchTemperature sets the sampling temperature.
func WithBatchTemperature(t float64) BatchOption {
	return func(b *BatchTranslator) {
		b.temperature = t
	}
}

// NewBatchTranslator creates a line-batch translator backed by llm.
func NewBatchTranslator(llm Completer, opts ...BatchOption) *BatchTranslator {
	b := &BatchTranslator{
		llm:          llm,
		batchSize:    DefaultBatchSize,
		placeholder:  BlankLinePlaceholder,
		defaultModel: DefaultModel,
		temperature:  DefaultTemperature,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildBatchPrompt returns the user message for one batch of lines.
func BuildBatchPrompt(targetLanguage string, lines []string) string {
	return fmt.Sprintf("Translate the following lyric lines into natural %s, keeping exactly the same number of lines (%d).\n"+
		"Output the translations only. Do not add numbering or commentary.\n\n%s",
		targetLanguage, len(lines), strings.Join(lines, "\n"))
}

// TranslateLines returns one translated line per input line, in order.
// The result always has len(lines) entries.
func (b *BatchTranslator) TranslateLines(ctx context.Context, lines []string, targetLanguage, modelName string) ([]string, error) {
	if len(lines) == 0 {
		return []string{}, nil
	}
	if modelName == "" {
		modelName = b.defaultModel
	}

	prepared := make([]string, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			prepared[i] = b.placeholder
		} else {
			prepared[i] = l
		}
	}

	out := make([]string, 0, len(lines))
	for start := 0; start < len(prepared); start += b.batchSize {
		end := start + b.batchSize
		if end > len(prepared) {
			end = len(prepared)
		}
		batch := prepared[start:end]

		resp, err := b.llm.Complete(ctx, model.CompletionRequest{
			Model:       modelName,
			System:      batchSystemPrompt,
			User:        BuildBatchPrompt(targetLanguage, batch),
			Temperature: b.temperature,
		})
		if err != nil {
			logger.Error("[TranslateLines] batch failed",
				logger.Int("offset", start),
				logger.Int("size", len(batch)),
				logger.ErrorField(err))
			return nil, fmt.Errorf("translate lines %d-%d: %w", start+1, end, err)
		}

		got := SplitLines(resp)
		if len(got) != len(batch) {
			logger.Warn("[TranslateLines] line count mismatch, correcting",
				logger.Int("expected", len(batch)),
				logger.Int("got", len(got)))
		}
		out = append(out, FitLines(len(batch), got)...)
	}
	return out, nil
}
