package known

// Reference maxima used to normalize the performance score. They are the
// extremes of the October 2025 catalog and are not recomputed on load, so a
// GPU beyond them scores above 100 on that axis.
const (
	ReferenceMaxVRAM      = 288.0  // MI350X, GB
	ReferenceMaxFP16      = 5300.0 // TFLOPS
	ReferenceMaxBandwidth = 8.0    // B200, TB/s
)

// Performance score weights.
const (
	VRAMWeight      = 0.3
	ComputeWeight   = 0.4
	BandwidthWeight = 0.3
)

// ValueScale converts price per unit of performance into value points.
const ValueScale = 10.0

const (
	HighAvailabilityScore   = 80.0
	MediumAvailabilityScore = 50.0
)

const (
	DeepSeekHost       = "https://api.deepseek.com"
	ChatCompletionsURI = "/chat/completions"
	DefaultChatModel   = "deepseek-chat"
	ChatTemperature    = 0.7
	ChatMaxTokens      = 2048
)

const (
	APIKeyEnv = "DEEPSEEK_API_KEY"
	EnvPrefix = "GPUROUTER"
)

const (
	ValueMode       = "value"
	PerformanceMode = "performance"
)

const (
	TableOutput = "table"
	JSONOutput  = "json"
	YAMLOutput  = "yaml"
)

const DefaultRankingLimit = 5

// RequestIDKey names the request id in hertz request contexts and logs.
const (
	RequestIDKey    = "requestID"
	RequestIDHeader = "X-Request-ID"
)
