package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithCause sets the underlying cause.
func (b *ErrorBuilder) WithCause(cause error) *ErrorBuilder {
	b.cause = cause
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors, one per pipeline failure class.

// ArgumentError creates a command-line input error.
func ArgumentError(message string) *ErrorBuilder {
	return NewError(CategoryArgument, message).Fatal()
}

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// RepositoryAccessError creates a version-control failure.
func RepositoryAccessError(message string) *ErrorBuilder {
	return NewError(CategoryRepository, message).Fatal()
}

// MissingModuleError reports a module absent from the source tree.
func MissingModuleError(message string) *ErrorBuilder {
	return NewError(CategoryMissingModule, message).Fatal()
}

// StagingIOError creates a staging copy error.
func StagingIOError(message string) *ErrorBuilder {
	return NewError(CategoryStaging, message).Fatal()
}

// GenerationEngineError reports a failed generation engine run.
func GenerationEngineError(message string) *ErrorBuilder {
	return NewError(CategoryGeneration, message).Fatal()
}

// DistributionIOError creates a fan-out copy error.
func DistributionIOError(message string) *ErrorBuilder {
	return NewError(CategoryDistribution, message).Fatal()
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
