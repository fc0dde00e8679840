package common

const (
	KEY_QUOTE_CACHE      = "quote:%s"
	KEY_HISTORICAL_CACHE = "historical:%s"
	KEY_SIGNAL_SCAN      = "signal_scan:latest"
)

const (
	SOURCE_FINNHUB   = "FINNHUB"
	SOURCE_STOOQ     = "STOOQ"
	SOURCE_YAHOO     = "YAHOO"
	SOURCE_SYNTHETIC = "SYNTHETIC"
)

const (
	SECTOR_OTHER = "Other"
)

const (
	KEY_LOG_HOOK_SEND_ALERT = "send_alert"
)

// DefaultWatchlist is the S&P constituent subset scanned when no explicit
// symbol list is configured.
func DefaultWatchlist() []string {
	return []string{
		"AAPL", "MSFT", "AMZN", "NVDA", "GOOGL", "META", "TSLA", "BRK-B", "UNH", "JNJ",
		"XOM", "JPM", "V", "PG", "MA", "HD", "CVX", "MRK", "ABBV", "LLY",
		"PEP", "KO", "COST", "AVGO", "WMT", "MCD", "CSCO", "TMO", "ACN", "ABT",
		"DHR", "NEE", "VZ", "ADBE", "CMCSA", "NKE", "PM", "TXN", "CRM", "UPS",
		"RTX", "BMY", "ORCL", "HON", "QCOM", "INTC", "IBM", "LOW", "AMGN", "UNP",
		"AMD", "CAT", "SPGI", "BA", "GE", "SBUX", "INTU", "DE", "PLD", "GILD",
		"MDLZ", "BLK", "ISRG", "CVS", "AXP", "ADI", "NOW", "VRTX", "BKNG", "LMT",
		"TMUS", "MMC", "REGN", "CI", "MO", "DUK", "SO", "ZTS", "CME", "SYK",
		"CL", "BDX", "EQIX", "TGT", "ITW", "AON", "SCHW", "CB", "PNC", "MU",
		"ATVI", "CSX", "NOC", "HUM", "FIS", "FISV", "NSC", "EW", "USB", "DG",
	}
}

var sectorMap = map[string]string{
	"AAPL": "Technology", "MSFT": "Technology", "NVDA": "Technology", "GOOGL": "Technology",
	"META": "Technology", "AVGO": "Technology", "CSCO": "Technology", "ADBE": "Technology",
	"CRM": "Technology", "ORCL": "Technology", "INTC": "Technology", "AMD": "Technology",
	"QCOM": "Technology", "TXN": "Technology", "IBM": "Technology", "NOW": "Technology",
	"INTU": "Technology", "ADI": "Technology", "MU": "Technology",

	"AMZN": "Consumer Discretionary", "TSLA": "Consumer Discretionary", "HD": "Consumer Discretionary",
	"MCD": "Consumer Discretionary", "NKE": "Consumer Discretionary", "LOW": "Consumer Discretionary",
	"SBUX": "Consumer Discretionary", "BKNG": "Consumer Discretionary", "TGT": "Consumer Discretionary",

	"BRK-B": "Financials", "JPM": "Financials", "V": "Financials", "MA": "Financials",
	"BLK": "Financials", "AXP": "Financials", "MMC": "Financials", "SCHW": "Financials",
	"CB": "Financials", "PNC": "Financials", "AON": "Financials", "CME": "Financials",
	"SPGI": "Financials", "USB": "Financials",

	"UNH": "Healthcare", "JNJ": "Healthcare", "MRK": "Healthcare", "ABBV": "Healthcare",
	"LLY": "Healthcare", "TMO": "Healthcare", "ABT": "Healthcare", "DHR": "Healthcare",
	"BMY": "Healthcare", "AMGN": "Healthcare", "GILD": "Healthcare", "ISRG": "Healthcare",
	"CVS": "Healthcare", "VRTX": "Healthcare", "REGN": "Healthcare", "CI": "Healthcare",
	"ZTS": "Healthcare", "SYK": "Healthcare", "BDX": "Healthcare", "EW": "Healthcare",
	"HUM": "Healthcare",

	"XOM": "Energy", "CVX": "Energy",

	"PG": "Consumer Staples", "PEP": "Consumer Staples", "KO": "Consumer Staples",
	"COST": "Consumer Staples", "WMT": "Consumer Staples", "PM": "Consumer Staples",
	"MDLZ": "Consumer Staples", "MO": "Consumer Staples", "CL": "Consumer Staples",
	"DG": "Consumer Staples",

	"NEE": "Utilities", "DUK": "Utilities", "SO": "Utilities",

	"RTX": "Industrials", "HON": "Industrials", "UPS": "Industrials", "UNP": "Industrials",
	"CAT": "Industrials", "BA": "Industrials", "GE": "Industrials", "DE": "Industrials",
	"LMT": "Industrials", "ITW": "Industrials", "CSX": "Industrials", "NOC": "Industrials",
	"NSC": "Industrials",

	"VZ": "Communication Services", "CMCSA": "Communication Services", "TMUS": "Communication Services",

	"PLD": "Real Estate", "EQIX": "Real Estate",

	"FIS": "Information Technology", "FISV": "Information Technology", "ACN": "Information Technology",
}

// SectorOf returns the sector for a symbol, or "Other" when unmapped.
func SectorOf(symbol string) string {
	if sector, ok := sectorMap[symbol]; ok {
		return sector
	}
	return SECTOR_OTHER
}
