// Package version holds the release version of sbomscope.
package version

// SbomscopeVersion is the current release version, you should update this variable when doing a release
var SbomscopeVersion = "0.3.0"
