// Package domain contains the message vocabulary exchanged between a
// donation flow and its host: Commands (flow -> host), Payloads
// (host -> flow) and the UI prop tree carried by render commands.
//
// Everything in this package is pure data. Both unions are closed: a
// host switching over Command or Payload variants covers the whole
// protocol, and the JSON wire format tags every value with a
// "__type__" discriminant so it survives a round trip through the
// host boundary.
package domain
