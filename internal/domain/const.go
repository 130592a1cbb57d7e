package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Catalog constants
	DEFAULT_CARD_SET_ID = "base1"

	// Booster names are synthesized from the token id
	BOOSTER_NAME_PREFIX = "Booster #"
)
