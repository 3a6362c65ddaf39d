// Package view turns catalog data into declarative view descriptions. Every
// function here is pure: adapters (HTML, terminal, desktop) receive a Page and
// apply it to their toolkit.
package view
