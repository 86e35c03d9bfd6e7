/*
Vault contract escrows the share of a token sale until the token is burned.

A collection deploys one vault per minted token to "<token id>.<collection>"
and initializes it in the same batch. The vault keeps a single balance either
in native currency or in one fungible token. The collection funds it with
deposit_native or with ft_transfer_call of the token contract and, when the
token is burned, calls withdraw to release everything to the claimant.

Funding is an asynchronous call of its own, so the balance is only eventually
consistent with the sale: it's non-zero between the funding receipt and a
withdrawal.

# Contract methods

	init(currency?)                   one-time initializer, owner is the caller
	deposit_native()                  payable, native vaults only
	ft_on_transfer(sender_id, amount) NEP-141 receiver hook, returns "0"
	withdraw(claimant)                owner contract only, empty vault is a no-op
	vault_info()                      view
	version()                         view

# Contract storage scheme

	| Key | Value                                       |
	|-----|---------------------------------------------|
	| 'S' | owner contract, currency, balance (neo-go io) |
*/
package vault
