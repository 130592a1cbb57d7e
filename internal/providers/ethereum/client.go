package ethereum

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/tcgmarket/market-indexer/internal/adapter"
	"github.com/tcgmarket/market-indexer/internal/domain"
	"github.com/tcgmarket/market-indexer/internal/logger"
)

var (
	// Transfer(address indexed from, address indexed to, uint256 indexed tokenId)
	transferEventSignature = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))
)

const (
	// defaultLogStepSize is the initial block range of a log query
	defaultLogStepSize = uint64(1000000)
	// logPageTimeout bounds one log query, a full scan has no deadline
	logPageTimeout = time.Minute
)

// MarketplaceClient reads the registry, collection and booster contracts of the marketplace
//
//go:generate mockgen -source=client.go -destination=../../mocks/marketplace_client.go -package=mocks -mock_names=MarketplaceClient=MockMarketplaceClient
type MarketplaceClient interface {
	// TotalCollections returns the number of collection contracts in the registry
	TotalCollections(ctx context.Context) (uint64, error)

	// Collection returns the address of the collection contract at index
	Collection(ctx context.Context, index uint64) (common.Address, error)

	// TotalBoosters returns the number of booster contracts in the registry
	TotalBoosters(ctx context.Context) (uint64, error)

	// Booster returns the address of the booster contract at index
	Booster(ctx context.Context, index uint64) (common.Address, error)

	// CardSaleState reads the listing state of a card token
	CardSaleState(ctx context.Context, collection common.Address, tokenID *big.Int) (domain.SaleState, error)

	// BoosterSaleState reads the listing state of a booster token
	BoosterSaleState(ctx context.Context, booster common.Address, tokenID *big.Int) (domain.SaleState, error)

	// BoosterImage reads the image URI of a booster token
	BoosterImage(ctx context.Context, booster common.Address, tokenID *big.Int) (string, error)

	// TransferEvents returns every ERC721 Transfer emitted by the contract, ordered by block and log index
	TransferEvents(ctx context.Context, contract common.Address) ([]domain.TransferEvent, error)

	// Close closes the connection
	Close()
}

type marketplaceClient struct {
	client   adapter.EthClient
	registry common.Address
	abis     *ContractABIs
	stepSize    uint64
	pageTimeout time.Duration
}

// NewClient creates a marketplace client bound to the registry contract
func NewClient(client adapter.EthClient, registry common.Address, abis *ContractABIs) MarketplaceClient {
	return &marketplaceClient{
		client:      client,
		registry:    registry,
		abis:        abis,
		stepSize:    defaultLogStepSize,
		pageTimeout: logPageTimeout,
	}
}

// TotalCollections returns the number of collection contracts in the registry
func (c *marketplaceClient) TotalCollections(ctx context.Context) (uint64, error) {
	return c.readCount(ctx, methodTotalCollections)
}

// Collection returns the address of the collection contract at index
func (c *marketplaceClient) Collection(ctx context.Context, index uint64) (common.Address, error) {
	return c.readAddress(ctx, methodGetCollection, index)
}

// TotalBoosters returns the number of booster contracts in the registry
func (c *marketplaceClient) TotalBoosters(ctx context.Context) (uint64, error) {
	return c.readCount(ctx, methodTotalBoosters)
}

// Booster returns the address of the booster contract at index
func (c *marketplaceClient) Booster(ctx context.Context, index uint64) (common.Address, error) {
	return c.readAddress(ctx, methodGetBoosters, index)
}

// CardSaleState reads cardDetails(tokenId) from a collection contract
func (c *marketplaceClient) CardSaleState(ctx context.Context, collection common.Address, tokenID *big.Int) (domain.SaleState, error) {
	return c.readSaleState(ctx, c.abis.Collection, collection, methodCardDetails, tokenID)
}

// BoosterSaleState reads itemDetails(tokenId) from a booster contract
func (c *marketplaceClient) BoosterSaleState(ctx context.Context, booster common.Address, tokenID *big.Int) (domain.SaleState, error) {
	return c.readSaleState(ctx, c.abis.Booster, booster, methodItemDetails, tokenID)
}

// BoosterImage reads imgURIs(tokenId) from a booster contract
func (c *marketplaceClient) BoosterImage(ctx context.Context, booster common.Address, tokenID *big.Int) (string, error) {
	values, err := c.call(ctx, c.abis.Booster, booster, methodImgURIs, tokenID)
	if err != nil {
		return "", err
	}

	uri, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s returned %T, expected string", domain.ErrContractCall, methodImgURIs, values[0])
	}
	return uri, nil
}

func (c *marketplaceClient) readCount(ctx context.Context, method string) (uint64, error) {
	values, err := c.call(ctx, c.abis.Registry, c.registry, method)
	if err != nil {
		return 0, err
	}

	count, ok := values[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("%w: %s returned %T, expected uint256", domain.ErrContractCall, method, values[0])
	}
	if !count.IsUint64() {
		return 0, fmt.Errorf("%w: %s returned out of range value %s", domain.ErrContractCall, method, count.String())
	}
	return count.Uint64(), nil
}

func (c *marketplaceClient) readAddress(ctx context.Context, method string, index uint64) (common.Address, error) {
	values, err := c.call(ctx, c.abis.Registry, c.registry, method, new(big.Int).SetUint64(index))
	if err != nil {
		return common.Address{}, err
	}

	address, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s returned %T, expected address", domain.ErrContractCall, method, values[0])
	}
	return address, nil
}

func (c *marketplaceClient) readSaleState(ctx context.Context, contractABI abi.ABI, contract common.Address, method string, tokenID *big.Int) (domain.SaleState, error) {
	values, err := c.call(ctx, contractABI, contract, method, tokenID)
	if err != nil {
		return domain.SaleState{}, err
	}
	if len(values) < 2 {
		return domain.SaleState{}, fmt.Errorf("%w: %s returned %d values, expected 2", domain.ErrContractCall, method, len(values))
	}

	isForSale, ok := values[0].(bool)
	if !ok {
		return domain.SaleState{}, fmt.Errorf("%w: %s returned %T for isForSale", domain.ErrContractCall, method, values[0])
	}
	price, ok := values[1].(*big.Int)
	if !ok {
		return domain.SaleState{}, fmt.Errorf("%w: %s returned %T for price", domain.ErrContractCall, method, values[1])
	}

	return domain.SaleState{IsForSale: isForSale, Price: price}, nil
}

// call packs a view call, executes it against the latest block and unpacks the outputs positionally
func (c *marketplaceClient) call(ctx context.Context, contractABI abi.ABI, contract common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s on %s: %v", domain.ErrContractCall, method, contract.Hex(), err)
	}

	values, err := contractABI.Unpack(method, result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: %s returned no values", domain.ErrContractCall, method)
	}

	return values, nil
}

// TransferEvents returns every ERC721 Transfer emitted by the contract from genesis to the latest block
func (c *marketplaceClient) TransferEvents(ctx context.Context, contract common.Address) ([]domain.TransferEvent, error) {
	logs, err := c.filterLogsWithPagination(ctx, ethereum.FilterQuery{
		Addresses: []common.Address{contract},
		Topics:    [][]common.Hash{{transferEventSignature}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transfer logs of %s: %w", contract.Hex(), err)
	}

	events := make([]domain.TransferEvent, 0, len(logs))
	for _, vLog := range logs {
		if vLog.Removed {
			continue
		}

		event, err := ParseTransferLog(vLog)
		if err != nil {
			return nil, err
		}
		if event == nil {
			logger.Debug("Skipping non ERC721 transfer event",
				zap.String("contract", vLog.Address.Hex()),
				zap.String("txHash", vLog.TxHash.Hex()))
			continue
		}
		events = append(events, *event)
	}

	SortTransferEvents(events)

	return events, nil
}

// ParseTransferLog decodes an ERC721 Transfer log
// It returns nil without error for ERC20 style transfers (3 topics)
func ParseTransferLog(vLog types.Log) (*domain.TransferEvent, error) {
	if len(vLog.Topics) == 0 || vLog.Topics[0] != transferEventSignature {
		return nil, fmt.Errorf("%w: unexpected event signature in tx %s", domain.ErrInvalidTransferLog, vLog.TxHash.Hex())
	}
	if len(vLog.Topics) == 3 {
		return nil, nil
	}
	if len(vLog.Topics) != 4 {
		return nil, fmt.Errorf("%w: expected 4 topics, got %d in tx %s", domain.ErrInvalidTransferLog, len(vLog.Topics), vLog.TxHash.Hex())
	}

	return &domain.TransferEvent{
		Contract:    vLog.Address,
		From:        domain.AddressKey(common.BytesToAddress(vLog.Topics[1].Bytes())),
		To:          domain.AddressKey(common.BytesToAddress(vLog.Topics[2].Bytes())),
		TokenID:     new(big.Int).SetBytes(vLog.Topics[3].Bytes()),
		BlockNumber: vLog.BlockNumber,
		LogIndex:    vLog.Index,
		TxHash:      vLog.TxHash.Hex(),
	}, nil
}

// SortTransferEvents orders events by block number then log index
func SortTransferEvents(events []domain.TransferEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockNumber != events[j].BlockNumber {
			return events[i].BlockNumber < events[j].BlockNumber
		}
		return events[i].LogIndex < events[j].LogIndex
	})
}

// filterLogsWithPagination scans [FromBlock, ToBlock] in block ranges to stay under provider result limits
// A nil FromBlock starts at genesis, a nil ToBlock ends at the latest block
func (c *marketplaceClient) filterLogsWithPagination(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	fromBlock := big.NewInt(0)
	if query.FromBlock != nil {
		fromBlock = new(big.Int).Set(query.FromBlock)
	}

	var toBlock *big.Int
	if query.ToBlock != nil {
		toBlock = new(big.Int).Set(query.ToBlock)
	} else {
		latest, err := c.client.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get latest block: %w", err)
		}
		toBlock = new(big.Int).Set(latest.Number)
	}

	stepSize := c.stepSize
	if stepSize == 0 {
		stepSize = defaultLogStepSize
	}

	var allLogs []types.Log
	currentFrom := fromBlock
	for currentFrom.Cmp(toBlock) <= 0 {
		currentTo := new(big.Int).Add(currentFrom, new(big.Int).SetUint64(stepSize-1))
		if currentTo.Cmp(toBlock) > 0 {
			currentTo.Set(toBlock)
		}

		rangeQuery := query
		rangeQuery.FromBlock = new(big.Int).Set(currentFrom)
		rangeQuery.ToBlock = new(big.Int).Set(currentTo)

		logs, err := c.filterLogsPage(ctx, rangeQuery)
		if err == nil {
			allLogs = append(allLogs, logs...)
			currentFrom = new(big.Int).Add(currentTo, big.NewInt(1))
			continue
		}

		if !isTooManyResultsError(err) || stepSize == 1 {
			return nil, fmt.Errorf("failed to get logs for range %s-%s: %w", currentFrom.String(), currentTo.String(), err)
		}

		logger.Warn("Too many results, reducing step size",
			zap.Uint64("oldStepSize", stepSize),
			zap.Uint64("newStepSize", stepSize/2),
			zap.String("fromBlock", currentFrom.String()),
			zap.String("toBlock", currentTo.String()))
		stepSize = stepSize / 2
	}

	return allLogs, nil
}

// filterLogsPage runs a single range query under the page timeout
func (c *marketplaceClient) filterLogsPage(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	timeout := c.pageTimeout
	if timeout <= 0 {
		timeout = logPageTimeout
	}

	pageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.client.FilterLogs(pageCtx, query)
}

// isTooManyResultsError checks if the error is related to too many results
func isTooManyResultsError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "query returned more than 10000 results") ||
		strings.Contains(errStr, "query timeout exceeded") ||
		strings.Contains(errStr, "too many results") ||
		strings.Contains(errStr, "exceeded maximum")
}

// Close closes the connection
func (c *marketplaceClient) Close() {
	c.client.Close()
}
