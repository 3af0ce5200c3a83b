// Package auth implements the Google OAuth implicit-grant sign-in flow and
// the in-memory directory of authorized users.
package auth
