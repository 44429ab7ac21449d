// Package translate turns lyrics into another language through a chat model
// while keeping their line layout and LRC time tags intact.
package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/model"
)

// DefaultMaxChunkChars bounds the text sent in a single request.
const DefaultMaxChunkChars = 4000

// Default model settings.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.2
)

// Completer is a chat model that answers one system + user exchange.
type Completer interface {
	Complete(ctx context.Context, req model.CompletionRequest) (string, error)
}

// Pipeline translates whole lyrics documents chunk by chunk.
type Pipeline struct {
	llm              Completer
	maxChunkChars    int
	defaultModel     string
	temperature      float64
	enforceLineCount bool
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithMaxChunkChars sets the chunk size ceiling.
func WithMaxChunkChars(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxChunkChars = n
		}
	}
}

// WithDefaultModel sets the model used when a call does not name one.
func WithDefaultModel(m string) PipelineOption {
	return func(p *Pipeline) {
		if m != "" {
			p.defaultModel = m
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) PipelineOption {
	return func(p *Pipeline) {
		p.temperature = t
	}
}

// WithLineCountEnforcement toggles fitting each chunk's output to the
// chunk's line count. Synced chunks are aligned by their time tags.
func WithLineCountEnforcement(on bool) PipelineOption {
	return func(p *Pipeline) {
		p.enforceLineCount = on
	}
}

// NewPipeline creates a pipeline that sends its requests to llm.
func NewPipeline(llm Completer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		llm:              llm,
		maxChunkChars:    DefaultMaxChunkChars,
		defaultModel:     DefaultModel,
		temperature:      DefaultTemperature,
		enforceLineCount: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BuildInstruction returns the system prompt for translating lyrics into
// targetLanguage.
func BuildInstruction(targetLanguage string, synced bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional lyrics translator. Translate the user's lyrics into %s.\n", targetLanguage)
	b.WriteString("Rules:\n")
	b.WriteString("- Preserve the line breaks exactly: output one line for every input line, in the same order, including empty lines.\n")
	b.WriteString("- If a line begins with one or more timestamp tags such as [01:23.45], copy those tags unchanged at the start of the line and translate only the text after them.\n")
	if synced {
		b.WriteString("- The input is time-synchronized (LRC). Never drop, merge, reorder or edit timestamp tags.\n")
	}
	b.WriteString("- Do not add commentary, notes, explanations, or quotation marks around the output.\n")
	b.WriteString("- Output only the translated lyrics.")
	return b.String()
}

// Translate translates lyrics into targetLanguage. Empty input yields an
// empty result without calling the model. Any failed chunk fails the whole
// call; partial output is never returned.
func (p *Pipeline) Translate(ctx context.Context, lyrics, targetLanguage, modelName string) (string, error) {
	text := strings.TrimSpace(strings.ReplaceAll(lyrics, "\r\n", "\n"))
	if text == "" {
		return "", nil
	}
	if modelName == "" {
		modelName = p.defaultModel
	}

	lines := strings.Split(text, "\n")
	synced := IsSynced(lines)
	instruction := BuildInstruction(targetLanguage, synced)
	chunks := ChunkLines(lines, p.maxChunkChars)

	logger.Info("[Translate] translating lyrics",
		logger.String("targetLanguage", targetLanguage),
		logger.String("model", modelName),
		logger.Bool("synced", synced),
		logger.Int("lines", len(lines)),
		logger.Int("chunks", len(chunks)))

	start := time.Now()
	outputs := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		lead, body, trail := splitBlankEdges(chunk)
		if len(body) == 0 {
			outputs = append(outputs, strings.Join(chunk, "\n"))
			continue
		}
		out, err := p.llm.Complete(ctx, model.CompletionRequest{
			Model:       modelName,
			System:      instruction,
			User:        strings.Join(body, "\n"),
			Temperature: p.temperature,
		})
		if err != nil {
			logger.Error("[Translate] chunk failed",
				logger.Int("chunk", i+1),
				logger.Int("chunks", len(chunks)),
				logger.ErrorField(err))
			return "", fmt.Errorf("translate chunk %d/%d: %w", i+1, len(chunks), err)
		}
		out = strings.TrimSpace(out)
		if p.enforceLineCount {
			got := SplitLines(out)
			var fitted []string
			if synced {
				fitted = AlignTimeTags(body, got)
			} else {
				fitted = FitLines(len(body), got)
			}
			if len(got) != len(body) {
				logger.Warn("[Translate] chunk line count mismatch",
					logger.Int("chunk", i+1),
					logger.Int("expected", len(body)),
					logger.Int("got", len(got)))
			}
			out = strings.Join(fitted, "\n")
		}
		outputs = append(outputs, strings.Join(append(append(lead, out), trail...), "\n"))
	}

	logger.Info("[Translate] lyrics translated", logger.Duration("elapsed", time.Since(start)))
	return strings.TrimSpace(strings.Join(outputs, "\n")), nil
}

// splitBlankEdges separates the blank lines at either end of chunk from
// the lines in between.
func splitBlankEdges(chunk []string) (lead, body, trail []string) {
	start, end := 0, len(chunk)
	for start < end && strings.TrimSpace(chunk[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(chunk[end-1]) == "" {
		end--
	}
	return chunk[:start:start], chunk[start:end], chunk[end:]
}

// AlignTimeTags maps translated lines back onto source lines so that the
// result has exactly len(source) lines, each carrying its source line's
// time tags. A translated line whose tags match a later source line is
// placed there; the skipped source lines keep their tags with empty text.
// Lines with missing or altered tags take the tags of the next free source
// line. Surplus lines are dropped. translated is never modified.
func AlignTimeTags(source, translated []string) []string {
	out := make([]string, len(source))
	filled := make([]bool, len(source))
	cursor := 0

	place := func(i int, text string) {
		tags, _ := SplitTimeTags(source[i])
		out[i] = tags + strings.TrimLeft(text, " ")
		filled[i] = true
	}

	for _, line := range translated {
		if cursor >= len(source) {
			break
		}
		tags, text := SplitTimeTags(line)
		if tags != "" {
			if j := indexOfTags(source, tags, cursor); j >= 0 {
				place(j, text)
				cursor = j + 1
				continue
			}
		}
		place(cursor, text)
		cursor++
	}

	for i := range out {
		if !filled[i] {
			out[i], _ = SplitTimeTags(source[i])
		}
	}
	return out
}

func indexOfTags(source []string, tags string, from int) int {
	for j := from; j < len(source); j++ {
		if t, _ := SplitTimeTags(source[j]); t == tags {
			return j
		}
	}
	return -1
}
