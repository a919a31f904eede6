// Package builtin provides the standard rule definitions.
//
// Plain rules:
//
//	required    value is present and not blank
//	minLength   length of a string, slice or map is at least param
//	maxLength   length is at most param
//	email       string is an e-mail address
//	uuid        string or uuid.UUID is a valid, non-nil UUID
//	pattern     string matches the regular expression in param
//	oneOf       value is one of the strings in param
//	range       number lies within param [min, max]
//	tag         value passes the go-playground validator tag in param
//	confirmed   value equals the target property named in param
//
// Persistent rules need a session factory:
//
//	unique          no other SQL row holds the value
//	uniqueDocument  no other document holds the value
//	notBlocked      value is not a member of the redis set named in param
//
// Except for required and confirmed, rules accept nil and empty values;
// combine them with required to make a property mandatory.
package builtin
