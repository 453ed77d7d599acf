// Package identity implements Parley's identity foundation: the registered
// user model, credential derivation on registration and update, and the
// persistence boundary used by the auth and messaging layers.
package identity
