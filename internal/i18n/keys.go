// internal/i18n/keys.go
package i18n

const (
	LangEnglish    = "en"
	LangPortuguese = "pt_BR"
)

// Translation keys constants
const (
	// Common
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"

	// Validation
	KeyValidationInvalidRequest = "validation.invalid_request"
	KeyValidationRequired       = "validation.field_required"
	KeyValidationInvalid        = "validation.field_invalid"
	KeyValidationTooShort       = "validation.field_too_short"
	KeyValidationTooLong        = "validation.field_too_long"
	KeyValidationEmail          = "validation.email"
	KeyValidationInvalidID      = "validation.invalid_id"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthEmailTaken         = "auth.email_taken"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAccessDenied           = "access.denied"
	KeyAdminRequired          = "access.admin_required"

	// Users
	KeyUserNotFound = "user.not_found"

	// Categories
	KeyCategoryNotFound = "category.not_found"
	KeyCategoryExists   = "category.exists"

	// Products
	KeyProductNotFound          = "product.not_found"
	KeyProductInvalidPrice      = "product.invalid_price"
	KeyProductInvalidStatus     = "product.invalid_status"
	KeyProductInvalidApproval   = "product.invalid_approval"
	KeyProductStatusTransition  = "product.status_transition"
	KeyProductApprovalFinal     = "product.approval_final"
	KeyProductNotAvailable      = "product.not_available"
	KeyProductOwnPurchase       = "product.own_purchase"
	KeyProductCategoryMissing   = "product.category_missing"
	KeyTransactionNotFound      = "transaction.not_found"
	KeyTransactionInvalidStatus = "transaction.invalid_status"
	KeyTransactionTransition    = "transaction.status_transition"

	// Reports
	KeyReportNotFound       = "report.not_found"
	KeyReportTargetRequired = "report.target_required"
	KeyReportInvalidStatus  = "report.invalid_status"
	KeyReportTransition     = "report.status_transition"

	// Support
	KeyTicketNotFound        = "ticket.not_found"
	KeyTicketInvalidStatus   = "ticket.invalid_status"
	KeyTicketInvalidPriority = "ticket.invalid_priority"
	KeyTicketTransition      = "ticket.status_transition"
	KeyTicketClosed          = "ticket.closed"

	// Uploads
	KeyUploadMissingFile = "upload.missing_file"
	KeyUploadTooLarge    = "upload.too_large"
	KeyUploadInvalidType = "upload.invalid_type"
)
