package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/martinHW299/crewai/internal/core/domain"
	"github.com/martinHW299/crewai/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func New(baseURL, model string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		// Backstop only; callers bound each request with a context timeout.
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Classifier implements the external classification capability boundary:
// one JSON-mode generation per (document, category) pair, schema-validated
// before anything downstream sees it.
type Classifier struct {
	client   *Client
	executor *resilience.Executor
}

func NewClassifier(client *Client, executor *resilience.Executor) *Classifier {
	return &Classifier{client: client, executor: executor}
}

func (c *Classifier) ClassifyCategory(ctx context.Context, text string, category domain.Category) (domain.CategoryExtraction, error) {
	prompt := buildCategoryPrompt(text, category)

	var raw string
	call := func(callCtx context.Context) error {
		resp, err := c.client.generateJSON(callCtx, prompt)
		if err != nil {
			return err
		}
		raw = resp
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "ollama.classify."+category.Key, call, classifyOllamaError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.CategoryExtraction{}, err
	}

	extraction, err := parseExtraction(raw, category)
	if err != nil {
		return domain.CategoryExtraction{}, domain.WrapError(domain.ErrMalformedExtraction, "classify "+category.Key, err)
	}
	return extraction, nil
}

func (c *Client) generateJSON(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
