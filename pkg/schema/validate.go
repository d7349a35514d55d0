package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/madspark-dev/madspark/pkg/errs"
)

// validate is a single, package-wide validator instance, mirroring the
// teacher's pkg/config/validator.go pattern of one shared *validator.Validate
// reused across every Validate call instead of constructing one per call.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRecord runs go-playground/validator struct-tag validation
// against a decoded record (GeneratedIdeas, CriticEvaluations, ...scored
// against the `validate:"..."` tags declared in pkg/models). On the
// first failing field it returns an *errs.SchemaValidationError carrying
// a dotted field path, since schema validation failures are
// non-retryable.
func ValidateRecord(record interface{}) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errs.NewSchemaValidationError(fieldPath(fe), reasonFor(fe))
	}
	return errs.NewSchemaValidationError("", err.Error())
}

func fieldPath(fe validator.FieldError) string {
	// fe.Namespace() is e.g. "GeneratedIdeas.Ideas[0].Title"; drop the
	// leading struct name so the path reads like a JSON pointer.
	parts := strings.SplitN(fe.Namespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return fe.Namespace()
}

func reasonFor(fe validator.FieldError) string {
	return fmt.Sprintf("failed %q validation (value: %v)", fe.Tag(), fe.Value())
}
