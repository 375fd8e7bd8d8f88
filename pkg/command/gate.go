package command

import (
	"context"

	"github.com/stevehodgkiss/interaction/pkg/validation"
)

// ValidateOrFail consults v. When v is invalid its errors are merged into the
// command's own collection and the command halts with that collection as the
// failure payload; return the result from Perform. A valid (or nil) v returns
// nil and the body carries on.
func (b *Base) ValidateOrFail(ctx context.Context, v validation.Validator) error {
	if !b.caps.Validations {
		return ErrValidationsDisabled
	}
	if v == nil || v.Valid() {
		return nil
	}
	errs := v.Errors()
	if errs.Empty() {
		b.errs.Add(validation.Base, "is invalid")
	} else {
		b.errs.Merge(errs)
	}
	return b.FailNow(ctx, b.Errors())
}
