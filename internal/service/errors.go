package service

// Машиночитаемые коды причин отказа валидации отчёта.
const (
	CodeMissingAgentID    = "MissingAgentId"
	CodeInvalidCoordinate = "InvalidCoordinate"
	CodeOutOfRange        = "OutOfRange"
)

// ValidationError - структурный отказ валидации отчёта о позиции.
// Отказ никогда не меняет хранилище и не порождает рассылку.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrMissingAgentID    = &ValidationError{Code: CodeMissingAgentID, Message: "agentId is required"}
	ErrInvalidCoordinate = &ValidationError{Code: CodeInvalidCoordinate, Message: "lat and lon must be finite numbers"}
	ErrOutOfRange        = &ValidationError{Code: CodeOutOfRange, Message: "lat must be within [-90,90] and lon within [-180,180]"}
)
