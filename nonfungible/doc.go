/*
Package nonfungible implements NEP-171 token ownership with approval
(NEP-178), enumeration (NEP-181) and metadata (NEP-177) extensions on top of
contract storage. Contracts embed Ledger and expose its operations as their
nft_* methods.

# Events

	nft_mint     [{owner_id, token_ids}]
	nft_burn     [{owner_id, token_ids}]
	nft_transfer [{authorized_id?, old_owner_id, new_owner_id, token_ids, memo?}]

All events use "nep171" standard version "1.0.0".

# Contract storage scheme

All keys start with the namespace byte given to NewLedger.

	| Key                          | Value                            |
	|------------------------------|----------------------------------|
	| 'o' + token id               | owner account id                 |
	| 't' + owner + 0x00 + tokenID | token set of the owner           |
	| 'b' + owner                  | number of owned tokens, LE u64   |
	| 'm' + token id               | JSON token metadata              |
	| 'a' + token id               | JSON approvals                   |
	| 'n' + token id               | next approval id, LE u64         |
	| 'u' + token id               | marker of an ever minted id      |
	| 's'                          | total supply, LE u64             |
*/
package nonfungible
