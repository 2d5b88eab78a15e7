// Package clock provides the time source used for token expiry.
//
// Services depend on Clocker; production wiring passes New, tests pass a
// Manual clock to step across expiry boundaries deterministically.
package clock
