package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"legal-anonymizer/internal/domain"
)

// nerTimeout bounds a single inference round-trip to the model-serving
// sidecar, the same discipline the teacher applies to its own model calls.
const nerTimeout = 60 * time.Second

// languageModels is the stable language → NER-model binding from §4.4.
// Italian is expected to be resident at process start; the rest load
// lazily on first use by the serving sidecar, which is outside this
// process's lifecycle.
var languageModels = map[string]string{
	"it": "it_core_news_lg",
	"en": "en_core_web_lg",
	"fr": "fr_core_news_lg",
	"es": "es_core_news_lg",
	"de": "de_core_news_lg",
	"pt": "pt_core_news_lg",
}

// ModelFor returns the stable model name bound to a language tag, and
// whether the language is supported.
func ModelFor(language string) (string, bool) {
	m, ok := languageModels[language]
	return m, ok
}

// nerRequest is the wire shape sent to the model-serving sidecar.
type nerRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// nerEntity is a single prediction returned by the sidecar: native label,
// byte offsets into the text it was given, and a model-assigned score.
type nerEntity struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Score float64 `json:"score"`
}

// nerResponse wraps the sidecar's entity list.
type nerResponse struct {
	Entities []nerEntity `json:"entities"`
}

// nerLabelKinds maps the native NER labels used by the spaCy-family models
// bound above onto the canonical EntityKind set. Unmappable labels are
// dropped, not treated as errors, per §4.4's kind-mapping rule.
var nerLabelKinds = map[string]domain.EntityKind{
	"PER":  domain.KindPerson,
	"PERSON": domain.KindPerson,
	"ORG":  domain.KindOrganization,
	"LOC":  domain.KindLocation,
	"GPE":  domain.KindLocation,
	"DATE": domain.KindDate,
}

// NERClient calls an external NER model-serving sidecar over HTTP, the
// only way to reach a language model from this process — there is no
// in-process spaCy/Presidio binding, so inference is necessarily an
// out-of-process collaborator reached the way the teacher reaches its own
// model server.
type NERClient struct {
	endpoint string
	client   *http.Client
}

// NewNERClient builds a client targeting endpoint, e.g.
// "http://localhost:8501/ner".
func NewNERClient(endpoint string) *NERClient {
	return &NERClient{endpoint: endpoint, client: http.DefaultClient}
}

// Detect calls the sidecar with text and the model bound to language, and
// maps the response onto a SpanSet. Any failure is returned as a plain
// error; the orchestrator logs it and falls back to pattern-only
// detection. This client never decides fallback policy, it only reports
// success or failure.
func (c *NERClient) Detect(ctx context.Context, text, language string) (domain.SpanSet, error) {
	model, ok := ModelFor(language)
	if !ok {
		return nil, fmt.Errorf("no NER model bound for language %q", language)
	}

	reqBody, err := json.Marshal(nerRequest{Text: text, Model: model})
	if err != nil {
		return nil, fmt.Errorf("marshal ner request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, nerTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create ner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ner request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ner response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ner sidecar returned status %d: %s", resp.StatusCode, body)
	}

	var parsed nerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse ner response: %w", err)
	}

	var spans domain.SpanSet
	for _, e := range parsed.Entities {
		kind, ok := nerLabelKinds[e.Label]
		if !ok {
			continue
		}
		spans = append(spans, domain.DetectedSpan{
			Kind:       kind,
			Text:       e.Text,
			Start:      e.Start,
			End:        e.End,
			Confidence: e.Score,
			Metadata: domain.SpanMetadata{
				RecognizerID: "ner:" + model,
			},
		})
	}
	return spans, nil
}
