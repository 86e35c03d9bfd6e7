/*
Collection contract is a NEP-171 non-fungible token deployed by the
launchpad. It sells tokens for a fixed price in native currency or in one
fungible token and splits every sale between the collection owner and a
vault deployed per token, see the vault package.

Minting is asynchronous. nft_mint checks the payment, updates the mint index
and the token ledger, then creates "<token id>.<collection>", funds it with
the vault stake, deploys the vault and initializes it in one batch. The
on_vault_deployed continuation issues two independent payment legs, to the
owner and to the vault, each observed by on_payment_settled. Failures of the
deployment or of a leg never roll the mint back, they are recorded as
reconciliations that anyone can retry with retry_reconciliation.

Burning removes the token and calls withdraw of its vault without waiting
for the result.

In fungible token mode buyers pre-deposit tokens with ft_transfer_call, a
mint spends the price from the pre-deposit.

Contract notifications

All events use "nep171" standard version "1.0.0".

	nft_mint:
	  - owner_id: string
	  - token_ids: []string
	nft_burn:
	  - owner_id: string
	  - token_ids: []string
	nft_transfer:
	  - authorized_id: string, optional
	  - old_owner_id: string
	  - new_owner_id: string
	  - token_ids: []string
	  - memo: string, optional

Contract storage scheme

	| Key                             | Value                              |
	|---------------------------------|------------------------------------|
	| 'S'                             | collection config (neo-go io)      |
	| 'M'                             | JSON contract metadata             |
	| 'x'                             | mint index, LE u128                |
	| 'd' + account                   | storage deposit, LE u128           |
	| 'f' + account                   | fungible token pre-deposit, LE u128 |
	| 'r' + token id + 0x00 + leg     | JSON reconciliation                |
	| 't' + ...                       | token ledger, see nonfungible      |
*/
package collection
