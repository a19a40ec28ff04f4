package domain

import "strings"

// GenericNewsQuery is used when no tracked asset matches the selection.
const GenericNewsQuery = "cryptocurrency"

// Asset is one entry of the static tracked-asset mapping.
type Asset struct {
	ID        string `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	NewsQuery string `json:"news_query"`
}

// TrackedAssets maps CoinGecko identifiers to display symbols and news queries.
var TrackedAssets = []Asset{
	{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin", NewsQuery: "Bitcoin"},
	{ID: "ethereum", Symbol: "ETH", Name: "Ethereum", NewsQuery: "Ethereum"},
	{ID: "solana", Symbol: "SOL", Name: "Solana", NewsQuery: "Solana"},
	{ID: "cardano", Symbol: "ADA", Name: "Cardano", NewsQuery: "Cardano"},
	{ID: "binancecoin", Symbol: "BNB", Name: "BNB", NewsQuery: "Binance Coin"},
	{ID: "ripple", Symbol: "XRP", Name: "XRP", NewsQuery: "Ripple"},
}

// DefaultAsset is the selection used before a consumer picks one.
const DefaultAsset = "BTC"

var (
	assetsByID     map[string]Asset
	assetsBySymbol map[string]Asset
)

func init() {
	assetsByID = make(map[string]Asset, len(TrackedAssets))
	assetsBySymbol = make(map[string]Asset, len(TrackedAssets))
	for _, a := range TrackedAssets {
		assetsByID[a.ID] = a
		assetsBySymbol[a.Symbol] = a
	}
}

// AssetByID looks up a tracked asset by its CoinGecko identifier.
func AssetByID(id string) (Asset, bool) {
	a, ok := assetsByID[strings.ToLower(strings.TrimSpace(id))]
	return a, ok
}

// AssetBySymbol accepts either a display symbol ("BTC") or a CoinGecko id ("bitcoin").
func AssetBySymbol(symbol string) (Asset, bool) {
	symbol = strings.TrimSpace(symbol)
	if a, ok := assetsBySymbol[strings.ToUpper(symbol)]; ok {
		return a, true
	}
	return AssetByID(symbol)
}

// TrackedIDs returns the CoinGecko ids in mapping order.
func TrackedIDs() []string {
	ids := make([]string, 0, len(TrackedAssets))
	for _, a := range TrackedAssets {
		ids = append(ids, a.ID)
	}
	return ids
}

// TrackedSymbols returns the display symbols in mapping order.
func TrackedSymbols() []string {
	symbols := make([]string, 0, len(TrackedAssets))
	for _, a := range TrackedAssets {
		symbols = append(symbols, a.Symbol)
	}
	return symbols
}

// NewsQueryFor resolves the news query for a selection, falling back to the
// generic query for anything outside the mapping.
func NewsQueryFor(selection string) string {
	if a, ok := AssetBySymbol(selection); ok {
		return a.NewsQuery
	}
	return GenericNewsQuery
}
