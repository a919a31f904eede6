// Package messages resolves rejection message codes against a YAML catalog
// and interpolates positional arguments into the result.
//
// Catalog files may be flat or nested; nested keys are joined with dots:
//
//	default:
//	  invalid:
//	    email:
//	      message: "Property [{0}] of [{1}] with value [{2}] is not a valid e-mail address"
//	user.email.unique: "{2} is already registered"
//
// Catalog implements constraint.MessageSource and constraint.Renderer.
// Resolve tries, in order: <owner>.<property>.<failureCode>,
// <owner>.<property>.<rule>, <failureCode>, <messageCode>, then the
// rejection's default message.
package messages
