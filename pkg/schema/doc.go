// Package schema derives form controls and validators from the request body
// of an OpenAPI operation.
//
// Each property of the request schema becomes a Field carrying its
// constraints (required, minLength, maxLength, minimum, maximum, pattern and
// the email/uri formats). Operation.Group turns the fields into a forms.Group
// whose controls run the matching validators, so a form bound from an API
// description reports the same failure kinds the catalog knows how to word.
package schema
