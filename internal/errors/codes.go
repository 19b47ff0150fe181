package errors

type Code string

const (
	CodeUnknown           Code = "UNKNOWN"
	CodeInternal          Code = "INTERNAL_ERROR"
	CodeConfigValidation  Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError   Code = "CONFIG_READ_ERROR"
	CodeConfigParseError  Code = "CONFIG_PARSE_ERROR"
	CodePlanParseError    Code = "PLAN_PARSE_ERROR"
	CodeUsageError        Code = "USAGE_ERROR"
	CodeAmbiguousIdentity Code = "AMBIGUOUS_IDENTITY"
	CodeResourceNotFound  Code = "RESOURCE_NOT_FOUND"
	CodeRemoteAPIError    Code = "REMOTE_API_ERROR"
	CodeRemoteAuthError   Code = "REMOTE_AUTH_ERROR"
	CodeTypeMismatch      Code = "TYPE_MISMATCH_ERROR"
	CodeNotImplemented    Code = "NOT_IMPLEMENTED"
	CodeTimeout           Code = "TIMEOUT_ERROR"
)

func (c Code) String() string {
	return string(c)
}
