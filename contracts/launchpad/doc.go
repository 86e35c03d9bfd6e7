/*
Launchpad contract deploys collection contracts on demand.

launch derives the collection account from the lower-cased metadata symbol,
"ABC" launched by "launchpad.test" lands on "abc.launchpad.test". One batch
creates the account, funds it with the collection stake, deploys the
collection code and calls its initializer with the caller as the owner. The
launchpad stores nothing.

The batch is atomic, a failed deployment leaves no collection account and
the runtime returns the stake to the launchpad. on_launched then sends it
back to the caller.

Contract notifications

All events use "launchpad" standard version "1.0.0".

	collection_launch:
	  - collection_id: string
	  - owner_id: string
	collection_launch_failed:
	  - collection_id: string
	  - owner_id: string
	  - reason: string
*/
package launchpad
