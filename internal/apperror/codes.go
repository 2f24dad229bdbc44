package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Yield-specific error codes
const (
	// Chain access
	CodeRPCConnectionFailed Code = "RPC_CONNECTION_FAILED"
	CodeRPCError            Code = "RPC_ERROR"
	CodeContractCallFailed  Code = "CONTRACT_CALL_FAILED"
	CodeABIEncodeFailed     Code = "ABI_ENCODE_FAILED"
	CodeABIDecodeFailed     Code = "ABI_DECODE_FAILED"

	// External feeds
	CodeAprFetchFailed   Code = "APR_FETCH_FAILED"
	CodePriceFetchFailed Code = "PRICE_FETCH_FAILED"

	// Computation
	CodeTVLFailed   Code = "TVL_FAILED"
	CodeInvalidPool Code = "INVALID_POOL"

	// Delivery
	CodeNotifyFailed Code = "NOTIFY_FAILED"

	// Circuit breaker
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
