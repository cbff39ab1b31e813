/*
Package wallet is the ledger: the only code path that moves a user's balance.

Credit tops a wallet up and records a wallet_add transaction. Debit spends
from the wallet for a recharge and records a recharge transaction, failing
with ErrInsufficientFunds when the balance does not cover the amount. Record
stores a recharge that was paid outside the wallet.

Balance changes are atomic in the store, so concurrent debits cannot
overdraw. After a change commits the service drops the cached user record
and publishes an event:

	svc := wallet.NewService(store, cache, publisher, wallet.Config{MaxTransactionAmount: max}, log)
	receipt, err := svc.Debit(ctx, userID, amount, wallet.Spend{PhoneNumber: "9876543210", Operator: "Jio"})
*/
package wallet
