package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/01moynul/glowbeauty-golang/internal/models"
	"github.com/01moynul/glowbeauty-golang/internal/store"
)

// ErrDisabled is returned when no Gemini API key is configured.
var ErrDisabled = errors.New("AI assistant is not configured")

const searchTool = "search_catalog"

// Catalog is the read-only product access the assistant gets.
type Catalog interface {
	ListProducts(ctx context.Context, f store.ProductFilter) ([]*models.Product, error)
	ProductsByCategory(ctx context.Context, category string) ([]*models.Product, error)
}

// Service holds the Gemini client and the catalog it may search.
type Service struct {
	Client  *genai.Client
	Catalog Catalog
	Model   string
}

// NewService initializes the Gemini client.
func NewService(ctx context.Context, apiKey, modelName string, catalog Catalog) (*Service, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &Service{Client: client, Catalog: catalog, Model: modelName}, nil
}

// Close releases the Gemini client.
func (s *Service) Close() error {
	return s.Client.Close()
}

// Reply is one assistant answer.
type Reply struct {
	Message     string `json:"message"`
	TotalTokens int    `json:"totalTokens"`
}

// Chat answers a shopper's question, searching the catalog when the model
// asks for it.
func (s *Service) Chat(ctx context.Context, userMessage string) (*Reply, error) {
	model := s.Client.GenerativeModel(s.Model)

	// 1. Define Tools
	model.Tools = []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        searchTool,
			Description: "Searches the Glow Beauty catalog by keyword and/or category and returns matching products with prices.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "Keywords such as a product type, ingredient or concern (e.g. 'vitamin c serum').",
					},
					"category": {
						Type:        genai.TypeString,
						Description: "Optional category such as makeup, skincare, haircare or fragrance.",
					},
				},
			},
		}},
	}}

	// 2. System Instructions
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(`
			You are the Glow Beauty shopping assistant.
			Help shoppers choose makeup, skincare, haircare and fragrance products.
			Use search_catalog before recommending products and only recommend products it returns.
			Quote prices exactly as returned. Be concise and friendly. Do not give medical advice.
		`)},
	}

	// 3. Execute Chat
	cs := model.StartChat()
	res, err := cs.SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		return nil, fmt.Errorf("error sending message: %w", err)
	}

	totalTokens := 0
	if res.UsageMetadata != nil {
		totalTokens = int(res.UsageMetadata.TotalTokenCount)
	}

	// 4. Loop for Function Calls
	for turn := 0; turn < 5; turn++ {
		if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
			return &Reply{Message: "No response.", TotalTokens: totalTokens}, nil
		}
		part := res.Candidates[0].Content.Parts[0]

		funcCall, ok := part.(genai.FunctionCall)
		if !ok {
			return &Reply{Message: fmt.Sprintf("%v", part), TotalTokens: totalTokens}, nil
		}
		if funcCall.Name != searchTool {
			return nil, fmt.Errorf("unknown function: %s", funcCall.Name)
		}

		query, _ := funcCall.Args["query"].(string)
		category, _ := funcCall.Args["category"].(string)
		slog.Debug("assistant searching catalog", "query", query, "category", category)

		result, err := s.SearchCatalog(ctx, query, category)
		if err != nil {
			result = fmt.Sprintf("Search error: %v", err)
		}

		res, err = cs.SendMessage(ctx, genai.FunctionResponse{
			Name:     searchTool,
			Response: map[string]any{"result": result},
		})
		if err != nil {
			return nil, fmt.Errorf("tool response error: %w", err)
		}
		if res.UsageMetadata != nil {
			totalTokens = int(res.UsageMetadata.TotalTokenCount)
		}
	}
	return nil, errors.New("assistant exceeded tool call limit")
}

type productHit struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Category string  `json:"category"`
	Price    string  `json:"price"`
	Rating   float64 `json:"rating"`
	InStock  bool    `json:"inStock"`
	Summary  string  `json:"summary,omitempty"`
}

// SearchCatalog runs the search_catalog tool and returns its JSON result.
// At most ten products are returned.
func (s *Service) SearchCatalog(ctx context.Context, query, category string) (string, error) {
	var (
		products []*models.Product
		err      error
	)
	switch {
	case category != "" && query == "":
		products, err = s.Catalog.ProductsByCategory(ctx, category)
	default:
		products, err = s.Catalog.ListProducts(ctx, store.ProductFilter{Search: query})
		if err == nil && category != "" {
			var narrowed []*models.Product
			byCategory, cerr := s.Catalog.ProductsByCategory(ctx, category)
			if cerr != nil {
				return "", cerr
			}
			keep := make(map[int64]bool, len(byCategory))
			for _, p := range byCategory {
				keep[p.ID] = true
			}
			for _, p := range products {
				if keep[p.ID] {
					narrowed = append(narrowed, p)
				}
			}
			products = narrowed
		}
	}
	if err != nil {
		return "", err
	}

	hits := make([]productHit, 0, min(len(products), 10))
	for _, p := range products {
		if len(hits) == 10 {
			break
		}
		hits = append(hits, productHit{
			ID:       p.ID,
			Name:     p.Name,
			Slug:     p.Slug,
			Category: p.Category,
			Price:    p.Price.StringFixed(2),
			Rating:   p.Rating,
			InStock:  p.InStock,
			Summary:  p.ShortDescription,
		})
	}
	b, err := json.Marshal(hits)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ProductCopy is generated marketing text for a product.
type ProductCopy struct {
	ShortDescription string `json:"shortDescription"`
	Description      string `json:"description"`
	Benefits         string `json:"benefits"`
	HowToUse         string `json:"howToUse"`
}

// GenerateProductCopy drafts storefront copy for an admin to review.
func (s *Service) GenerateProductCopy(ctx context.Context, p *models.Product) (*ProductCopy, error) {
	model := s.Client.GenerativeModel(s.Model)
	model.ResponseMIMEType = "application/json"

	prompt := fmt.Sprintf(`Write product copy for a beauty e-commerce store.
Product: %s
Category: %s
Size: %s
Ingredients: %s
Existing description: %s
Return JSON with keys shortDescription (max 160 chars), description (2 short paragraphs), benefits (comma separated), howToUse (1-3 sentences).`,
		p.Name, p.Category, p.Size, p.Ingredients, p.Description)

	res, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generate product copy: %w", err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return nil, errors.New("empty response from model")
	}

	var text strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return ParseProductCopy(text.String())
}

// ParseProductCopy decodes the model's JSON answer, tolerating a fenced
// code block around it.
func ParseProductCopy(raw string) (*ProductCopy, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var out ProductCopy
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &out); err != nil {
		return nil, fmt.Errorf("decode product copy: %w", err)
	}
	if out.Description == "" && out.ShortDescription == "" {
		return nil, errors.New("model returned no copy")
	}
	return &out, nil
}
