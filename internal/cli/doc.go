// Package cli implements the interactive terminal front end of the
// onboarding client. App wires the identity gateway, partner resolver and
// session gate into two orchestrated flows (member join and partner
// application); runREPL dispatches typed commands onto App.
//
// Output goes through the printlnFn seam and passwords are read through the
// readPassword seam, so tests can drive the full command surface without a
// terminal.
package cli
