package pokemontcg

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tcgmarket/market-indexer/internal/adapter"
)

const (
	PROVIDER_NAME = "pokemontcg"

	// MaxPageSize is the largest page the API serves
	MaxPageSize = 250
)

// ErrInvalidPage is returned for non-positive page arguments
var ErrInvalidPage = errors.New("page and page size must be positive")

// Images holds the artwork URLs of a card
type Images struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

// Card represents a card returned by the cards endpoint
type Card struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
	Rarity string `json:"rarity"`
	Images Images `json:"images"`
}

// Set represents a card set returned by the sets endpoint
type Set struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Series       string `json:"series"`
	PrintedTotal int    `json:"printedTotal"`
	Total        int    `json:"total"`
}

// CardsPage is one page of the cards endpoint
type CardsPage struct {
	Data       []Card `json:"data"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	Count      int    `json:"count"`
	TotalCount int    `json:"totalCount"`
}

// HasMore reports whether pages after this one exist
func (p *CardsPage) HasMore() bool {
	return p.Count > 0 && p.Page*p.PageSize < p.TotalCount
}

type setsResponse struct {
	Data []Set `json:"data"`
}

// Client defines the interface for Pokémon TCG API operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/pokemontcg_client.go -package=mocks -mock_names=Client=MockPokemonTCGClient
type Client interface {
	// FindSet returns the set with the given id, nil when the API does not know it
	FindSet(ctx context.Context, setID string) (*Set, error)

	// ListCards returns one page of the cards of a set
	ListCards(ctx context.Context, setID string, page, pageSize int) (*CardsPage, error)
}

// PokemonTCGClient implements Client over the v2 REST API
type PokemonTCGClient struct {
	httpClient adapter.HTTPClient
	apiURL     string
	apiKey     string
}

// NewClient creates a new Pokémon TCG API client
func NewClient(httpClient adapter.HTTPClient, apiURL string, apiKey string) Client {
	return &PokemonTCGClient{
		httpClient: httpClient,
		apiURL:     strings.TrimRight(apiURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *PokemonTCGClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{"X-Api-Key": c.apiKey}
}

// FindSet returns the set with the given id
func (c *PokemonTCGClient) FindSet(ctx context.Context, setID string) (*Set, error) {
	query := url.Values{}
	query.Set("q", "id:"+setID)
	endpoint := fmt.Sprintf("%s/v2/sets?%s", c.apiURL, query.Encode())

	var response setsResponse
	if err := c.httpClient.Get(ctx, endpoint, c.headers(), &response); err != nil {
		return nil, fmt.Errorf("failed to call %s sets API: %w", PROVIDER_NAME, err)
	}

	for i := range response.Data {
		if response.Data[i].ID == setID {
			return &response.Data[i], nil
		}
	}

	return nil, nil
}

// ListCards returns one page of the cards of a set
func (c *PokemonTCGClient) ListCards(ctx context.Context, setID string, page, pageSize int) (*CardsPage, error) {
	if page <= 0 || pageSize <= 0 {
		return nil, ErrInvalidPage
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	query := url.Values{}
	query.Set("q", "set.id:"+setID)
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))
	endpoint := fmt.Sprintf("%s/v2/cards?%s", c.apiURL, query.Encode())

	var response CardsPage
	if err := c.httpClient.Get(ctx, endpoint, c.headers(), &response); err != nil {
		return nil, fmt.Errorf("failed to call %s cards API: %w", PROVIDER_NAME, err)
	}

	return &response, nil
}
