package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/tcgmarket/market-indexer/internal/domain"
	"github.com/tcgmarket/market-indexer/internal/logger"
	"github.com/tcgmarket/market-indexer/internal/providers/pokemontcg"
)

// maxPages bounds the card listing in case the API keeps reporting more pages
const maxPages = 100

// Card is the display metadata of one card of the set
type Card struct {
	ID         string
	Name       string
	Number     string
	ImageSmall string
	ImageLarge string
}

// Snapshot is an immutable, ordered view of the card set
// Position k holds the card minted as token k+1
type Snapshot struct {
	setID string
	cards []Card
}

// NewSnapshot creates a snapshot owning cards
func NewSnapshot(setID string, cards []Card) *Snapshot {
	return &Snapshot{setID: setID, cards: cards}
}

// EmptySnapshot returns a snapshot without cards
func EmptySnapshot() *Snapshot {
	return &Snapshot{}
}

// Lookup returns the card at position index
func (s *Snapshot) Lookup(index int) (Card, bool) {
	if s == nil || index < 0 || index >= len(s.cards) {
		return Card{}, false
	}
	return s.cards[index], true
}

// Len returns the number of cards in the snapshot
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.cards)
}

// SetID returns the id of the set the snapshot was built from
func (s *Snapshot) SetID() string {
	if s == nil {
		return ""
	}
	return s.setID
}

// Loader builds the catalog snapshot
//
//go:generate mockgen -source=catalog.go -destination=../mocks/catalog_loader.go -package=mocks -mock_names=Loader=MockCatalogLoader
type Loader interface {
	// Load fetches the configured set, returning an empty snapshot when the catalog is unavailable
	Load(ctx context.Context) *Snapshot
}

type loader struct {
	client   pokemontcg.Client
	setID    string
	pageSize int
}

// NewLoader creates a catalog loader for one card set
func NewLoader(client pokemontcg.Client, setID string, pageSize int) Loader {
	if setID == "" {
		setID = domain.DEFAULT_CARD_SET_ID
	}
	if pageSize <= 0 || pageSize > pokemontcg.MaxPageSize {
		pageSize = pokemontcg.MaxPageSize
	}
	return &loader{client: client, setID: setID, pageSize: pageSize}
}

// Load fetches the configured set, returning an empty snapshot when the catalog is unavailable
func (l *loader) Load(ctx context.Context) *Snapshot {
	snapshot, err := l.fetch(ctx)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to load card catalog: %w", err), zap.String("setID", l.setID))
		return EmptySnapshot()
	}

	logger.InfoCtx(ctx, "Card catalog loaded",
		zap.String("setID", snapshot.SetID()),
		zap.Int("cards", snapshot.Len()))
	return snapshot
}

func (l *loader) fetch(ctx context.Context) (*Snapshot, error) {
	set, err := l.client.FindSet(ctx, l.setID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCatalogSetNotFound, l.setID)
	}

	var cards []Card
	for page := 1; page <= maxPages; page++ {
		result, err := l.client.ListCards(ctx, set.ID, page, l.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list cards page %d: %w", page, err)
		}

		for _, c := range result.Data {
			cards = append(cards, Card{
				ID:         c.ID,
				Name:       c.Name,
				Number:     c.Number,
				ImageSmall: c.Images.Small,
				ImageLarge: c.Images.Large,
			})
		}

		if !result.HasMore() {
			break
		}
	}

	SortByNumber(cards)

	return NewSnapshot(set.ID, cards), nil
}

// SortByNumber orders cards by their numeric collector number
// Cards without a numeric number keep their relative order after the numbered ones
func SortByNumber(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		ni, errI := strconv.Atoi(cards[i].Number)
		nj, errJ := strconv.Atoi(cards[j].Number)
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		default:
			return false
		}
	})
}
