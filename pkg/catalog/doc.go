// Package catalog defines the data exchanged with the prediction backend: the
// feature taxonomy shown to the user and the ranked prediction returned for a
// selection.
//
// Both payloads carry JSON objects whose key order is meaningful (category
// order on screen, evidence order in the explanation). The decoders in this
// package walk the raw document with gjson so that order survives decoding;
// encoding/json maps would lose it.
package catalog
