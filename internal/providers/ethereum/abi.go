package ethereum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/tcgmarket/market-indexer/internal/adapter"
)

const (
	methodTotalCollections = "totalCollections"
	methodGetCollection    = "getCollection"
	methodTotalBoosters    = "totalBoosters"
	methodGetBoosters      = "getBoosters"
	methodCardDetails      = "cardDetails"
	methodItemDetails      = "itemDetails"
	methodImgURIs          = "imgURIs"
)

// Built-in ABI fragments covering the reads the indexer performs
const (
	registryABIJSON = `[
	{"inputs":[],"name":"totalCollections","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"index","type":"uint256"}],"name":"getCollection","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"totalBoosters","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"index","type":"uint256"}],"name":"getBoosters","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

	collectionABIJSON = `[
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"cardDetails","outputs":[{"name":"isForSale","type":"bool"},{"name":"price","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

	boosterABIJSON = `[
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"itemDetails","outputs":[{"name":"isForSale","type":"bool"},{"name":"price","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"tokenId","type":"uint256"}],"name":"imgURIs","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`
)

// ABIPaths holds optional artifact paths, an empty path selects the built-in fragment
type ABIPaths struct {
	Registry   string
	Collection string
	Booster    string
}

// ContractABIs holds the parsed ABIs of the three marketplace contract kinds
type ContractABIs struct {
	Registry   abi.ABI
	Collection abi.ABI
	Booster    abi.ABI
}

// DefaultABIs returns the built-in ABI fragments
func DefaultABIs() (*ContractABIs, error) {
	return LoadABIs(nil, ABIPaths{})
}

// LoadABIs parses the contract ABIs, reading artifacts from fs for every non-empty path
func LoadABIs(fs adapter.FileSystem, paths ABIPaths) (*ContractABIs, error) {
	registry, err := loadABI(fs, paths.Registry, registryABIJSON, methodTotalCollections, methodGetCollection, methodTotalBoosters, methodGetBoosters)
	if err != nil {
		return nil, fmt.Errorf("registry ABI: %w", err)
	}
	collection, err := loadABI(fs, paths.Collection, collectionABIJSON, methodCardDetails)
	if err != nil {
		return nil, fmt.Errorf("collection ABI: %w", err)
	}
	booster, err := loadABI(fs, paths.Booster, boosterABIJSON, methodItemDetails, methodImgURIs)
	if err != nil {
		return nil, fmt.Errorf("booster ABI: %w", err)
	}

	return &ContractABIs{Registry: registry, Collection: collection, Booster: booster}, nil
}

func loadABI(fs adapter.FileSystem, path string, fallback string, required ...string) (abi.ABI, error) {
	if path == "" {
		return abi.JSON(strings.NewReader(fallback))
	}
	if fs == nil {
		return abi.ABI{}, fmt.Errorf("no file system to read %s", path)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	parsed, err := ParseArtifact(data)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	for _, method := range required {
		if _, ok := parsed.Methods[method]; !ok {
			return abi.ABI{}, fmt.Errorf("artifact %s has no method %s", path, method)
		}
	}

	return parsed, nil
}

// ParseArtifact parses either a bare ABI array or a compiled artifact of the form {"abi": [...]}
func ParseArtifact(data []byte) (abi.ABI, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return abi.JSON(bytes.NewReader(trimmed))
	}

	var artifact struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(trimmed, &artifact); err != nil {
		return abi.ABI{}, err
	}
	if len(artifact.ABI) == 0 {
		return abi.ABI{}, fmt.Errorf("artifact has no abi field")
	}

	return abi.JSON(bytes.NewReader(artifact.ABI))
}
