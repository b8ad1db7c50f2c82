package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"leavemgmt/internal/platform/apperror"
	"leavemgmt/internal/transport/http/api"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messages maps "<json field>.<tag>" to the message shown to clients.
// Unlisted pairs fall back to a generic per-tag message.
var messages = map[string]string{
	"email.required":        "Email address is required.",
	"email.email":           "Please provide a valid email address.",
	"password.required":     "Password is required.",
	"start_date.datetime":   "Please provide a valid start date.",
	"end_date.datetime":     "Please provide a valid end date.",
	"joining_date.datetime": "Please provide a valid joining date.",
}

// Validate checks payload against its validate tags and returns a
// validation error keyed by json field name, or nil.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.ValidationField("body", "Invalid request payload.")
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = messageFor(fe)
	}
	return apperror.Validation(fields)
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	label := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return "The " + label + " field is required."
	case "max":
		return "The " + label + " may not be greater than " + fe.Param() + " characters."
	default:
		return "The " + label + " is invalid."
	}
}

// Decode reads a JSON body into dst and validates it. On failure it writes
// the error response and returns false. An empty body decodes as {} so
// missing fields surface as validation messages.
func Decode(w http.ResponseWriter, r *http.Request, dst any, requestID string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body is too large.", requestID)
			return false
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "Invalid request payload.", requestID)
		return false
	}
	if err := Validate(dst); err != nil {
		api.FailError(w, err, requestID)
		return false
	}
	return true
}
