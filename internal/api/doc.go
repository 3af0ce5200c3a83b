// Package api contains the HTTP handlers of the scaffolding: the sign-in
// sequence and the pages it renders.
package api
