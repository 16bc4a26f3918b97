// Package testsupport holds helpers shared by package tests: document
// fixtures, golden files (refreshed with UPDATE_GOLDENS=1) and spies.
package testsupport
