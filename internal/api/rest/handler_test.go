package rest_test

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcgmarket/market-indexer/internal/adapter"
	"github.com/tcgmarket/market-indexer/internal/api/rest"
	"github.com/tcgmarket/market-indexer/internal/cache"
	"github.com/tcgmarket/market-indexer/internal/domain"
	"github.com/tcgmarket/market-indexer/internal/mocks"
)

const (
	alice = "0x1111111111111111111111111111111111111111"
	bob   = "0x2222222222222222222222222222222222222222"
	carol = "0x3333333333333333333333333333333333333333"
)

var (
	collection0 = common.HexToAddress("0xa16E02E87b7454126E5E10d957A927A7F5B5d2be")
	collection1 = common.HexToAddress("0x8464135c8F25Da09e49BC8782676a84730C318bC")
	booster0    = common.HexToAddress("0xB7A5bd0345EF1Cc5E66bf61BdeC17D2461fBd968")
)

type testHandler struct {
	router *gin.Engine
	store  *cache.Store
	status *mocks.MockReconciler
}

func setupTestHandler(t *testing.T) *testHandler {
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := cache.NewStore(adapter.NewJSON(), adapter.NewJCS())
	publish(t, store, cardSnapshot())
	publish(t, store, boosterSnapshot())

	status := mocks.NewMockReconciler(ctrl)
	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(store, status))

	return &testHandler{router: router, store: store, status: status}
}

func publish(t *testing.T, store *cache.Store, b *cache.Builder) {
	snapshot, err := store.Build(b, "run", time.Now())
	require.NoError(t, err)
	store.Publish(snapshot)
}

func cardSnapshot() *cache.Builder {
	b := cache.NewBuilder(domain.ItemKindCard)
	b.Move(domain.ETHEREUM_ZERO_ADDRESS, domain.Item{
		Kind:          domain.ItemKindCard,
		TokenID:       big.NewInt(5),
		Owner:         alice,
		Name:          "Bulbasaur",
		Image:         "https://images.example/base1/44_hires.png",
		Price:         big.NewInt(0),
		SourceIndex:   0,
		SourceAddress: collection0,
	})
	b.Move(domain.ETHEREUM_ZERO_ADDRESS, domain.Item{
		Kind:          domain.ItemKindCard,
		TokenID:       big.NewInt(2),
		Owner:         bob,
		Name:          "Blastoise",
		Image:         "https://images.example/base1/2_hires.png",
		IsForSale:     true,
		Price:         big.NewInt(1000),
		SourceIndex:   1,
		SourceAddress: collection1,
	})
	b.Move(domain.ETHEREUM_ZERO_ADDRESS, domain.Item{
		Kind:          domain.ItemKindCard,
		TokenID:       big.NewInt(3),
		Owner:         carol,
		Name:          "Chansey",
		Price:         big.NewInt(0),
		SourceAddress: collection0,
	})
	b.Move(carol, domain.Item{
		Kind:          domain.ItemKindCard,
		TokenID:       big.NewInt(3),
		Owner:         alice,
		Name:          "Chansey",
		Price:         big.NewInt(0),
		SourceAddress: collection0,
	})
	return b
}

func boosterSnapshot() *cache.Builder {
	b := cache.NewBuilder(domain.ItemKindBooster)
	b.Move(domain.ETHEREUM_ZERO_ADDRESS, domain.Item{
		Kind:          domain.ItemKindBooster,
		TokenID:       big.NewInt(7),
		Owner:         bob,
		Name:          domain.BoosterName(big.NewInt(7)),
		Image:         "ipfs://booster-7.png",
		IsForSale:     true,
		Price:         big.NewInt(250),
		SourceAddress: booster0,
	})
	return b
}

func (h *testHandler) get(target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestGetCards_ByUser(t *testing.T) {
	h := setupTestHandler(t)

	w := h.get("/api/cards?userId=" + strings.ToUpper(bob[2:]))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.get("/api/cards?userId=0x" + strings.ToUpper(bob[2:]))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{
		"tokenId": "2",
		"name": "Blastoise",
		"image": "https://images.example/base1/2_hires.png",
		"isForSale": true,
		"price": "1000",
		"collectionId": "1",
		"collectionAddress": "`+collection1.Hex()+`"
	}]`, w.Body.String())
}

func TestGetCards_UserWithoutItems(t *testing.T) {
	h := setupTestHandler(t)

	w := h.get("/api/cards?userId=" + carol)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestGetCards_Errors(t *testing.T) {
	h := setupTestHandler(t)

	tests := []struct {
		name   string
		target string
		code   int
		body   string
	}{
		{name: "unknown user", target: "/api/cards?userId=0xdead", code: http.StatusNotFound, body: `{"error":"User not found"}`},
		{name: "unknown card", target: "/api/cards?cardId=99", code: http.StatusNotFound, body: `{"error":"Card not found"}`},
		{name: "non numeric card", target: "/api/cards?cardId=abc", code: http.StatusBadRequest, body: `{"error":"Invalid card ID"}`},
		{name: "negative card", target: "/api/cards?cardId=-1", code: http.StatusBadRequest, body: `{"error":"Invalid card ID"}`},
		{name: "unknown booster", target: "/api/boosters?boosterId=8", code: http.StatusNotFound, body: `{"error":"Booster not found"}`},
		{name: "non numeric booster", target: "/api/boosters?boosterId=x", code: http.StatusBadRequest, body: `{"error":"Invalid booster ID"}`},
		{name: "missing user", target: "/nft/userID", code: http.StatusBadRequest, body: `{"error":"User ID is required"}`},
		{name: "unknown legacy user", target: "/nft/userID?userId=0xdead", code: http.StatusNotFound, body: `{"error":"User not found"}`},
		{name: "unknown route", target: "/api/unknown", code: http.StatusNotFound, body: `{"error":"Not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.get(tt.target)
			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestGetCards_ByCardID(t *testing.T) {
	h := setupTestHandler(t)

	w := h.get("/api/cards?cardId=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"tokenId": "5",
		"name": "Bulbasaur",
		"image": "https://images.example/base1/44_hires.png",
		"isForSale": false,
		"price": "0",
		"collectionId": "0",
		"collectionAddress": "`+collection0.Hex()+`"
	}`, w.Body.String())
}

func TestGetCards_UserIDTakesPrecedence(t *testing.T) {
	h := setupTestHandler(t)

	w := h.get("/api/cards?userId=" + bob + "&cardId=abc")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Blastoise"`)
}

func TestGetCards_FullMappingKeepsOwnerOrder(t *testing.T) {
	h := setupTestHandler(t)

	w := h.get("/api/cards")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	aliceAt, bobAt, carolAt := strings.Index(body, alice), strings.Index(body, bob), strings.Index(body, carol)
	require.True(t, aliceAt >= 0 && bobAt >= 0 && carolAt >= 0)
	assert.Less(t, aliceAt, bobAt)
	assert.Less(t, bobAt, carolAt)
	assert.Contains(t, body, `"`+carol+`":[]`)
	assert.Contains(t, body, `"name":"Chansey"`)
}

func TestGetCardsForSale(t *testing.T) {
	h := setupTestHandler(t)

	w := h.get("/api/cards/for-sale")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{
		"tokenId": "2",
		"name": "Blastoise",
		"image": "https://images.example/base1/2_hires.png",
		"isForSale": true,
		"price": "1000",
		"collectionId": "1",
		"collectionAddress": "`+collection1.Hex()+`",
		"owner": "`+bob+`"
	}]`, w.Body.String())
}

func TestGetOwners(t *testing.T) {
	h := setupTestHandler(t)

	w := h.get("/nft/all")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["`+alice+`","`+bob+`","`+carol+`"]`, w.Body.String())
}

func TestGetUserCards(t *testing.T) {
	h := setupTestHandler(t)

	w := h.get("/nft/userID?userId=" + alice)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Bulbasaur"`)
	assert.Contains(t, w.Body.String(), `"name":"Chansey"`)

	fromCards := h.get("/api/cards?userId=" + alice)
	assert.JSONEq(t, fromCards.Body.String(), w.Body.String())
}

func TestGetBoosters(t *testing.T) {
	h := setupTestHandler(t)

	w := h.get("/api/boosters?boosterId=7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"tokenId": "7",
		"name": "Booster #7",
		"image": "ipfs://booster-7.png",
		"isForSale": true,
		"price": "250",
		"boosterId": "0",
		"boosterAddress": "`+booster0.Hex()+`"
	}`, w.Body.String())

	w = h.get("/api/boosters/for-sale")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"owner":"`+bob+`"`)
	assert.Contains(t, w.Body.String(), `"boosterAddress":"`+booster0.Hex()+`"`)

	w = h.get("/api/boosters")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"`+bob+`":[{`)
}

func TestETag(t *testing.T) {
	h := setupTestHandler(t)

	w := h.get("/api/cards/for-sale")
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	assert.Equal(t, `"`+h.store.Cards().Digest()+`"`, etag)

	w = h.get("/api/cards/for-sale", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	w = h.get("/api/cards/for-sale", "If-None-Match", `W/`+etag)
	assert.Equal(t, http.StatusNotModified, w.Code)

	w = h.get("/api/cards/for-sale", "If-None-Match", `"stale"`)
	assert.Equal(t, http.StatusOK, w.Code)

	// A new snapshot changes the tag
	publish(t, h.store, cache.NewBuilder(domain.ItemKindCard))
	w = h.get("/api/cards/for-sale", "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.NotEqual(t, etag, w.Header().Get("ETag"))
}

func TestGetStatus(t *testing.T) {
	h := setupTestHandler(t)

	succeededAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h.status.EXPECT().Status().Return(domain.ReconcilerStatus{
		CatalogSetID: "base1",
		CatalogSize:  102,
		Cards: domain.PassStatus{
			Kind:          domain.ItemKindCard,
			RunID:         "01HX",
			Runs:          3,
			LastStartedAt: succeededAt,
			LastSuccessAt: succeededAt,
			LastDuration:  1500 * time.Millisecond,
			Owners:        2,
			Items:         3,
			ForSale:       1,
			Digest:        "0xabc",
		},
		Boosters: domain.PassStatus{
			Kind:      domain.ItemKindBooster,
			Runs:      1,
			Failures:  1,
			LastError: "booster pass failed: rpc unavailable",
		},
	})

	w := h.get("/api/status")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"catalog": {"setId": "base1", "size": 102},
		"cards": {
			"running": false,
			"runId": "01HX",
			"runs": 3,
			"failures": 0,
			"lastStartedAt": "2024-05-01T12:00:00Z",
			"lastSuccessAt": "2024-05-01T12:00:00Z",
			"lastDuration": "1.5s",
			"owners": 2,
			"items": 3,
			"forSale": 1,
			"skipped": 0,
			"digest": "0xabc"
		},
		"boosters": {
			"running": false,
			"runs": 1,
			"failures": 1,
			"lastError": "booster pass failed: rpc unavailable",
			"owners": 0,
			"items": 0,
			"forSale": 0,
			"skipped": 0
		}
	}`, w.Body.String())
}

func TestHealthCheck(t *testing.T) {
	h := setupTestHandler(t)

	w := h.get("/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
