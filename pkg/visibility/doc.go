// Package visibility holds the policies that decide when formatted validation
// errors become visible. Policies are plain predicates over model.State; the
// expr subpackage compiles textual rules such as "(dirty && touched) || submitted"
// into policies so configuration files can declare them.
package visibility
