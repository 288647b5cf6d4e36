package common

const (
	// AnalysisTableName is the table backing the record store.
	AnalysisTableName = "analysis_data"
	// DefaultDatabaseFile is created in the working directory unless database.path says otherwise.
	DefaultDatabaseFile = "investment_analysis.db"

	CurrencySymbol = "₹"

	CacheKeyPriceHistory = "market:history:%s:%s"
	CacheKeyFundamentals = "market:fundamentals:%s"
)
