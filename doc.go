// Package tokenauth provides stateful JWT session management: bcrypt
// credential storage, typed access/refresh/reset token issuance, and a
// persistent revocation ledger consulted on every protected request.
//
// Token lifecycle:
//   - Access tokens are short lived and carry the subject plus a role claim.
//     Refresh and reset tokens carry only the subject. Every token embeds a
//     type claim and each consumer states which type it accepts, so a valid
//     signature alone never authorizes an operation.
//   - Logout writes the raw access token into the revocation ledger. The
//     ledger is checked before signature validation and entries outlive the
//     token's own expiry.
//
// Authorization:
//   - Guard resolves bearer tokens into Principals backed by the live user
//     record. Role checks read the stored role, not the token claim, so a
//     promotion or demotion takes effect on the next request rather than at
//     the next token refresh.
//
// Password resets:
//   - The forgot flow answers identically for known and unknown emails and
//     hands minted reset tokens to a Notifier through a non-blocking
//     background dispatcher. Delivery failures are logged, never surfaced.
package tokenauth
