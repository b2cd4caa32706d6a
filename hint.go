package quizcraft

import (
	"context"
	"strings"
)

// HintService fetches on-demand hints for individual questions. The response
// is returned verbatim after trimming; there is no check that the model
// actually withheld the answer.
type HintService struct {
	client CompletionClient
}

// NewHintService creates a hint service on top of a completion client.
func NewHintService(client CompletionClient) *HintService {
	return &HintService{client: client}
}

// FetchHint requests one hint for the given question. The logger may be nil.
func (h *HintService) FetchHint(ctx context.Context, q Question, logger *Transcript) (string, error) {
	prompt := BuildHintPrompt(q)

	if logger != nil {
		logger.LogRequest("hint", prompt)
	}

	raw, err := h.client.Complete(ctx, prompt)
	if err != nil {
		return "", &GenerationError{Action: "hint", Err: err}
	}

	if logger != nil {
		logger.LogResponse("hint", raw)
	}

	return strings.TrimSpace(raw), nil
}
