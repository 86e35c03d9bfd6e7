/*
Fungible contract is a NEP-141 token with NEP-145 storage management and
NEP-148 metadata. Collections use it as the mint currency: buyers pre-deposit
tokens with ft_transfer_call, collections and vaults move tokens with
ft_transfer and ft_transfer_call.

The whole supply is minted to the owner by the initializer. Holders must be
registered with storage_deposit before they can receive tokens, registration
costs exactly common.FTRegistrationDeposit and can't be withdrawn.

Contract notifications

All events use "nep141" standard version "1.0.0".

	ft_mint:
	  - owner_id: string
	  - amount: U128
	ft_transfer:
	  - old_owner_id: string
	  - new_owner_id: string
	  - amount: U128
	  - memo: string, optional
	ft_burn:
	  - owner_id: string
	  - amount: U128

ft_burn is produced when a refund of ft_transfer_call can't be returned to an
unregistered sender.

Contract storage scheme

	| Key           | Value                        |
	|---------------|------------------------------|
	| 'O'           | owner account id             |
	| 'M'           | JSON metadata                |
	| 'T'           | total supply, LE u128        |
	| 'a' + account | balance of a registered holder (neo-go io) |
*/
package fungible
