// Package constraint wraps user-supplied predicate functions so a validation
// pipeline can run them like built-in rules.
//
// A Definition names a rule and carries its predicates. A Factory checks the
// definition once and produces validators from it: a plain *Validator, or a
// *PersistentValidator when the rule is marked persistent. Persistent rules
// need a resource.Provider at construction and reach the persistence session
// factory through Scope.Store.
//
// # Predicates
//
// The validation predicate declares how many arguments it needs:
//
//	constraint.Func1(func(s *constraint.Scope, value any) (bool, error) {
//	    str, _ := value.(string)
//	    return str != "", nil
//	})
//
// Func2 additionally receives the validated object, Func3 the error sink as
// well. Reflect adapts an ordinary Go function by inspecting its signature:
//
//	p, err := constraint.Reflect(func(zip string) bool { return len(zip) == 5 })
//
// # Validation
//
//	v, err := constraint.Create(def, nil)
//	if err := v.Bind("address", "zip", nil); err != nil { ... }
//
//	errs := constraint.NewCollector()
//	if err := v.Validate(ctx, address, address.Zip, errs); err != nil {
//	    // predicate fault
//	}
//	if verrs := errs.ValidationErrors(nil); verrs != nil { ... }
//
// A false result is reported as a Rejection into the sink, never as an error.
// Errors returned by predicates come back wrapped in ErrPredicateFault, and
// configuration problems wrap ErrConfiguration. Panics raised inside
// predicates are not recovered.
package constraint
