package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeRPCConnectionFailed: "Failed to connect to Ethereum node",
	CodeRPCError:            "Ethereum RPC call failed",
	CodeContractCallFailed:  "Smart contract call failed",
	CodeABIEncodeFailed:     "Failed to encode contract call",
	CodeABIDecodeFailed:     "Failed to decode contract response",

	CodeAprFetchFailed:   "Failed to fetch APR breakdown",
	CodePriceFetchFailed: "Failed to fetch token price",

	CodeTVLFailed:   "TVL lookup failed",
	CodeInvalidPool: "Invalid pool definition",

	CodeNotifyFailed: "Failed to deliver notification",

	CodeCircuitOpen: "Circuit breaker is open",
}
