// Package dom wraps golang.org/x/net/html node trees with the handful of
// operations validation display needs: class and attribute helpers, ancestor
// and descendant queries, and view containers that insert rendered markup
// after an anchor element and remove it again.
package dom
