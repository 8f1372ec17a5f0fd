/*
Package auth is for authentication and authorization. It contains the credential store (bcrypt password hashes) and the authorization gate.

Levels

Every route requires one of three levels:

  None           everyone, including anonymous visitors
  Authenticated  users who have logged in
  Administrator  users who have logged in and whose account has the administrator flag

Administrators are a subset of authenticated users.

Decisions

The gate checks authentication before the role. An anonymous visitor who requests an administrator action is Unauthenticated (HTTP 401), not Forbidden (HTTP 403).
*/
package auth
