package yahoo

import (
	"slices"
	"strings"
)

// Exchange describes one stock exchange reachable through a listing suffix.
type Exchange struct {
	Suffix  string `json:"suffix"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// exchanges lists the listing suffixes the service understands. The empty
// suffix stands for the default US listing.
var exchanges = []Exchange{
	{"", "NYSE / NASDAQ / AMEX", "United States"},
	{".BA", "Buenos Aires Stock Exchange", "Argentina"},
	{".AX", "Australian Securities Exchange", "Australia"},
	{".VI", "Vienna Stock Exchange", "Austria"},
	{".SA", "BM&F Bovespa", "Brazil"},
	{".TO", "Toronto Stock Exchange", "Canada"},
	{".V", "TSX Venture Exchange", "Canada"},
	{".SN", "Santiago Stock Exchange", "Chile"},
	{".SS", "Shanghai Stock Exchange", "China"},
	{".SZ", "Shenzhen Stock Exchange", "China"},
	{".CO", "Copenhagen Stock Exchange", "Denmark"},
	{".PA", "Euronext Paris", "France"},
	{".BE", "Berlin Stock Exchange", "Germany"},
	{".DE", "XETRA", "Germany"},
	{".DU", "Dusseldorf Stock Exchange", "Germany"},
	{".F", "Frankfurt Stock Exchange", "Germany"},
	{".HA", "Hanover Stock Exchange", "Germany"},
	{".HM", "Hamburg Stock Exchange", "Germany"},
	{".MU", "Munich Stock Exchange", "Germany"},
	{".SG", "Stuttgart Stock Exchange", "Germany"},
	{".HK", "Hong Kong Stock Exchange", "Hong Kong"},
	{".BO", "Bombay Stock Exchange", "India"},
	{".NS", "National Stock Exchange of India", "India"},
	{".JK", "Jakarta Stock Exchange", "Indonesia"},
	{".TA", "Tel Aviv Stock Exchange", "Israel"},
	{".MI", "Borsa Italiana", "Italy"},
	{".MX", "Mexican Stock Exchange", "Mexico"},
	{".AS", "Euronext Amsterdam", "Netherlands"},
	{".NZ", "New Zealand Stock Exchange", "New Zealand"},
	{".OL", "Oslo Stock Exchange", "Norway"},
	{".SI", "Singapore Exchange", "Singapore"},
	{".KS", "Korea Stock Exchange", "South Korea"},
	{".KQ", "KOSDAQ", "South Korea"},
	{".MC", "Bolsa de Madrid", "Spain"},
	{".ST", "Stockholm Stock Exchange", "Sweden"},
	{".SW", "SIX Swiss Exchange", "Switzerland"},
	{".TWO", "Taiwan OTC Exchange", "Taiwan"},
	{".TW", "Taiwan Stock Exchange", "Taiwan"},
	{".L", "London Stock Exchange", "United Kingdom"},
}

// Exchanges lists the recognized exchanges, default US listing first.
func Exchanges() []Exchange {
	return slices.Clone(exchanges)
}

// LookupExchange finds the exchange a listing suffix denotes. Matching is
// case-insensitive; the empty suffix is the default US listing.
func LookupExchange(suffix string) (Exchange, bool) {
	for _, x := range exchanges {
		if strings.EqualFold(x.Suffix, suffix) {
			return x, true
		}
	}
	return Exchange{}, false
}

// SplitSymbol separates a listing symbol like "RHM.DE" into its ticker and
// exchange. A symbol without a recognized suffix is a US listing;
// share-class dots ("BRK.B") stay part of the ticker.
func SplitSymbol(symbol string) (string, Exchange) {
	if i := strings.LastIndexByte(symbol, '.'); i >= 0 {
		if x, ok := LookupExchange(symbol[i:]); ok {
			return symbol[:i], x
		}
	}
	us, _ := LookupExchange("")
	return symbol, us
}

// JoinSymbol composes a listing symbol from a ticker and exchange.
func JoinSymbol(ticker string, x Exchange) string {
	return ticker + x.Suffix
}
