package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"quotepro/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// ExtractorService turns pasted document text (an emailed quote, a scanned
// invoice OCR dump, a price list) into structured line item candidates.
// Everything it returns is untrusted input: callers reconcile it through
// core.ExtractedDocument before any number reaches a quote.
type ExtractorService interface {
	ExtractDocument(ctx context.Context, text string, profession string) (*core.ExtractedDocument, error)
}

type Extractor struct {
	client *openai.Client
}

func NewExtractor(apiKey string) *Extractor {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Extractor{client: &client}
}

func (e *Extractor) ExtractDocument(ctx context.Context, text string, profession string) (*core.ExtractedDocument, error) {
	prompt := fmt.Sprintf(`You are a billing assistant for a %s practice.
Extract the client details and every billable line item from the document below.
Rules:
1. Copy descriptions verbatim; do not summarize or merge rows.
2. Quantities and prices are plain number strings without currency symbols.
3. Use '1' for a quantity the document does not state.
4. Never invent rows. Skip headings, subtotals, tax lines, and totals.
5. Provide a confidence score (0.0-1.0) and note anything you skipped.

Document:
%s`, professionLabel(profession), text)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "document_extraction",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("Client details and billable line items extracted from a document"),
				},
			},
		},
	}

	resp, err := e.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var doc core.ExtractedDocument
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse extraction: %w", err)
	}

	doc.Normalize()
	return &doc, nil
}

func professionLabel(profession string) string {
	switch profession {
	case core.ProfessionMedical, core.ProfessionLegal, core.ProfessionAccounting, core.ProfessionEngineering:
		return profession
	default:
		return "general services"
	}
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.ExtractedDocument
	return reflector.Reflect(v)
}
