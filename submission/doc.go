// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package submission implements the results submission protocol.

# Ordering

For an accepted submission, Submit runs:

 1. ledger.ApplySubmission (check, mutate and lock under the ledger mutex)
 2. local store Save (synchronous; failure is logged, not returned)
 3. mirror Save (background goroutine; failure is logged)
 4. vote-update broadcast

Once step 1 succeeds the submission is acknowledged. Losing a backup write
or the mirror does not retract it.

# Errors

Submit returns only the ledger's validation errors:

  - ledger.ErrInvalidCenter
  - *ledger.DuplicateSubmissionError (with the original timestamp)

Wait blocks until background mirror writes finish; Flush does a final write
to both stores at shutdown.
*/
package submission
