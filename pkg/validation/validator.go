package validation

// Validator is the schema-validation collaborator a command consults before
// doing work.
type Validator interface {
	Valid() bool
	Errors() *Errors
}

// Result is a Validator holding a fixed set of errors.
type Result struct {
	errs *Errors
}

// Static wraps an already computed collection. A nil or empty collection is
// valid.
func Static(errs *Errors) Result {
	return Result{errs: errs}
}

// Check runs fn against a fresh collection and returns the result.
//
//	v := validation.Check(func(errs *validation.Errors) {
//		if name == "" {
//			errs.Add("name", "can't be blank")
//		}
//	})
func Check(fn func(errs *Errors)) Result {
	errs := NewErrors()
	fn(errs)
	return Result{errs: errs}
}

func (r Result) Valid() bool {
	return r.errs.Empty()
}

func (r Result) Errors() *Errors {
	if r.errs == nil {
		return NewErrors()
	}
	return r.errs
}

// All combines validators; the result is valid only if every one of them is,
// and its errors are merged in argument order.
func All(validators ...Validator) Result {
	errs := NewErrors()
	for _, v := range validators {
		if v == nil || v.Valid() {
			continue
		}
		if v.Errors().Empty() {
			errs.Add(Base, "is invalid")
			continue
		}
		errs.Merge(v.Errors())
	}
	return Result{errs: errs}
}
