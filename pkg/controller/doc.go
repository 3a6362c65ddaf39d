// Package controller holds the form controller: it loads the feature
// taxonomy, owns checkbox state and the id to label lookup, runs the analyze
// command and publishes a view.Page to a Presenter after every transition.
//
// The controller never touches a UI toolkit. Adapters implement Presenter and
// forward user actions (check, uncheck, analyze) as method calls.
package controller
