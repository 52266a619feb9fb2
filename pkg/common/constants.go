package common

const (
	MetricsNamespace = "stock_advisor"

	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"

	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)
