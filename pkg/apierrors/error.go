package apierrors

import (
	"fmt"
	"github.com/gagovictor/task-manager-sub000/pkg/translator"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.uber.org/zap"
)

// JsonErr is the error envelope every handler returns on failure.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

// Err carries the HTTP status code and the translated message.
type Err struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

// CreateError builds a JsonErr with the message key resolved in lang.
func CreateError(code int, msgKey string, lang string) JsonErr {
	return JsonErr{ErrDetails: Err{Code: code, Message: GetTransErrorMsg(msgKey, lang)}}
}

// GetTransErrorMsg resolves msgKey in lang, falling back to English and
// finally to the key itself so a missing catalog never breaks a response.
func GetTransErrorMsg(msgKey string, lang string) string {
	localizer := i18n.NewLocalizer(translator.Translator, lang, "en")
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: msgKey})
	if err != nil {
		zap.L().Warn("translation not found", zap.String("lang", lang), zap.String("message_id", msgKey), zap.Error(err))
		return msgKey
	}
	return msg
}
