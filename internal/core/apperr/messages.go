package apperr

import "fmt"

// message keys
const (
	MsgInvalidCredentials     = "auth.invalidCredentials"
	MsgEmailAlreadyRegistered = "auth.emailAlreadyRegistered"
	MsgEmailNotFound          = "auth.emailNotFound"
	MsgEmailNotVerified       = "auth.emailNotVerified"
	MsgWrongPassword          = "auth.passwordUpdate.wrongPassword"
	MsgSamePassword           = "auth.passwordUpdate.samePassword"
	MsgVerifyTokenInvalid     = "auth.emailAddressVerificationEmail.invalidToken"
	MsgVerifyTokenExpired     = "auth.emailAddressVerificationEmail.expiredToken"
	MsgResetTokenInvalid      = "auth.passwordReset.invalidToken"
	MsgResetTokenExpired      = "auth.passwordReset.expiredToken"
	MsgUserNotFound           = "user.errors.notFound"
	MsgUserEmailTaken         = "user.errors.userAlreadyExists"
	MsgProductNotFound        = "product.errors.notFound"
	MsgCategoryNotFound       = "category.errors.notFound"
	MsgOrderNotFound          = "order.errors.notFound"
	MsgFileNotFound           = "file.errors.notFound"
	MsgFileNotOwned           = "file.errors.notOwned"
	MsgFileBadPath            = "file.errors.badPath"
	MsgInvalidPage            = "list.errors.page"
	MsgInvalidStatus          = "validation.status"
	MsgInvalidRole            = "validation.role"
	MsgMailFailed             = "mail.errors.delivery"
	MsgGoogleDisabled         = "auth.google.disabled"
)

var bundle = map[string]string{
	MsgInvalidCredentials:     "Sorry, we don't recognize your credentials",
	MsgEmailAlreadyRegistered: "Email is already in use",
	MsgEmailNotFound:          "Sorry, we don't recognize your email",
	MsgEmailNotVerified:       "Please verify your email first",
	MsgWrongPassword:          "The current password is wrong",
	MsgSamePassword:           "The new password must be different from the current one",
	MsgVerifyTokenInvalid:     "Email verification link is invalid",
	MsgVerifyTokenExpired:     "Email verification link has expired",
	MsgResetTokenInvalid:      "Password reset link is invalid",
	MsgResetTokenExpired:      "Password reset link has expired",
	MsgUserNotFound:           "User with id %s not found",
	MsgUserEmailTaken:         "User with email %s already exists",
	MsgProductNotFound:        "Product with id %s not found",
	MsgCategoryNotFound:       "Category with id %s not found",
	MsgOrderNotFound:          "Order with id %s not found",
	MsgFileNotFound:           "File not found",
	MsgFileNotOwned:           "File %s does not belong to this record",
	MsgFileBadPath:            "File path %q is not allowed here",
	MsgInvalidPage:            "offset must be >= 0 and limit > 0",
	MsgInvalidStatus:          "Unknown status %q",
	MsgInvalidRole:            "Unknown role %q",
	MsgMailFailed:             "Could not send email",
	MsgGoogleDisabled:         "Google sign-in is not configured",
}

// Msg renders the message for key with args. Unknown keys render as the key.
func Msg(key string, args ...any) string {
	tmpl, ok := bundle[key]
	if !ok {
		return key
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}

// Invalid is a validation error rendered from the message bundle.
func Invalid(key string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: Msg(key, args...)}
}

// Missing is a not-found error rendered from the message bundle.
func Missing(key string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: Msg(key, args...)}
}
