// Package auth implements authentication and authorization for the admin API.
//
// It contains four cooperating pieces:
//
//   - TokenCodec: issues and verifies the signed session token carried in the
//     admin_jwt cookie. Tokens embed the caller's Identity and expire after a
//     fixed window; verification fails closed.
//
//   - Verifier: checks a username/password pair against stored credentials
//     through one unified lookup. Unknown user, disabled account and wrong
//     password are indistinguishable to the caller.
//
//   - Policy engine: a static grant table maps operation classes (read,
//     create, update, delete) to the roles allowed to perform them, and
//     Authorize computes the effective company scope for a caller. Company
//     tier roles never see or touch rows outside their own company.
//
//   - Fiber middleware: RequireAuth extracts and verifies the cookie and
//     attaches the Identity to the request context; RequireOperation and
//     RequireCompanyAccess gate routes on the policy engine.
//
// The grant table is defined once at compile time and never mutated.
package auth
