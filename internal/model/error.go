package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeInvalidRecipe    = "INVALID_RECIPE"
	ErrCodeInvalidDate      = "INVALID_DATE"
	ErrCodeRecipeNotFound   = "RECIPE_NOT_FOUND"
	ErrCodeMealPlanNotFound = "MEAL_PLAN_NOT_FOUND"
	ErrCodeImportFailed     = "IMPORT_FAILED"
	ErrCodeCorruptRecord    = "CORRUPT_RECORD"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped copies with a
// more specific message still match the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrRecipeNotFound   = NewDomainError(ErrCodeRecipeNotFound, "Recipe not found")
	ErrMealPlanNotFound = NewDomainError(ErrCodeMealPlanNotFound, "Meal plan not found")
	ErrInvalidRecipe    = NewDomainError(ErrCodeInvalidRecipe, "Recipe is invalid")
	ErrInvalidDate      = NewDomainError(ErrCodeInvalidDate, "Date must be formatted as YYYY-MM-DD")
	ErrImportFailed     = NewDomainError(ErrCodeImportFailed, "Import failed: the file is not a valid export document")
	ErrCorruptRecord    = NewDomainError(ErrCodeCorruptRecord, "Stored record is corrupt")
)
