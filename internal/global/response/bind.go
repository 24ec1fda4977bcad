package response

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	}
}

// Messages maps a failed binding rule to its client message. Keys are
// "Field.tag", with a bare "Field" entry covering every tag on that field.
type Messages map[string]string

func (m Messages) lookup(fe validator.FieldError) (string, bool) {
	if msg, ok := m[fe.Field()+"."+fe.Tag()]; ok {
		return msg, true
	}
	msg, ok := m[fe.Field()]
	return msg, ok
}

// BindError turns a ShouldBind failure into ErrInvalidRequest. Missing-value
// failures win over the rest so "X is required" is reported before a range check.
func BindError(err error, msgs Messages) *Error {
	base := ErrInvalidRequest.WithOrigin(err)

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return base
	}
	for _, fe := range ves {
		if fe.Tag() != "required" && fe.Tag() != "notblank" {
			continue
		}
		if msg, ok := msgs.lookup(fe); ok {
			return base.WithTips(msg)
		}
	}
	for _, fe := range ves {
		if msg, ok := msgs.lookup(fe); ok {
			return base.WithTips(msg)
		}
	}
	return base
}
