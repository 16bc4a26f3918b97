// Package validators provides the stock form validators. Each constructor
// takes an optional message; when given, it is attached to the failure detail
// under "message" and wins over any catalog entry at display time.
//
// Failure kinds and detail keys follow the usual reactive-forms conventions:
//
//	min        {min, actual}
//	max        {max, actual}
//	required   {}
//	email      {}
//	minlength  {requiredLength, actualLength}
//	maxlength  {requiredLength, actualLength}
//	pattern    {requiredPattern, actualValue}
//	range      {range, actual}
//	url        {}
//	equal      {requiredValue, actual}
//	equalTo    {requiredValue, actual}
//	whitespace {}
//
// Empty values pass every validator except Required, RequiredTrue and
// NoWhitespace so optional controls stay valid.
package validators
