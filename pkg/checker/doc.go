// Package checker validates objects against a YAML ruleset.
//
// A ruleset maps entities to properties and properties to rules:
//
//	entities:
//	  user:
//	    email:
//	      - required
//	      - email
//	      - rule: unique
//	        param: {table: users}
//	    password:
//	      - rule: minLength
//	        param: 8
//
// An Engine resolves each property on the target (a struct, by json tag or
// field name, or a map), binds a validator per rule and collects the
// rejections into constraint.ValidationErrors. Bound validators are kept in
// an LRU cache until the ruleset is reloaded.
//
//	engine, err := checker.NewEngine(rs,
//		checker.WithResources(reg),
//		checker.WithMessages(catalog),
//		checker.WithLogger(log),
//	)
//	if err := engine.Check(ctx, "user", u); err != nil {
//		if errs := constraint.ExtractValidationErrors(err); errs != nil {
//			// report errs
//		}
//	}
package checker
