package apierrors_test

import (
	"testing"

	"github.com/gagovictor/task-manager-sub000/pkg/apierrors"
	"github.com/gagovictor/task-manager-sub000/pkg/translator"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMain(m *testing.M) {
	translator.Translator = i18n.NewBundle(language.English)
	_ = translator.Translator.AddMessages(language.English, &i18n.Message{
		ID:    apierrors.MsgTaskNotFound,
		Other: "Task not found.",
	})
	m.Run()
}

func TestCreateError_ReturnsTranslatedEnvelope(t *testing.T) {
	err := apierrors.CreateError(404, apierrors.MsgTaskNotFound, "en")
	assert.Equal(t, 404, err.ErrDetails.Code)
	assert.Equal(t, "Task not found.", err.ErrDetails.Message)
}

func TestGetTransErrorMsg_FallbackToKey(t *testing.T) {
	msg := apierrors.GetTransErrorMsg("noSuchKey", "en")
	assert.Equal(t, "noSuchKey", msg)
}

func TestJsonErr_ErrorMethod(t *testing.T) {
	err := apierrors.CreateError(404, apierrors.MsgTaskNotFound, "en")
	assert.Equal(t, "Code: 404, Message: Task not found.", err.Error())
}
