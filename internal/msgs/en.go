// Package msgs registers every translatable message key the payment
// processor raises, following the same FFxxxxx-style registration the
// teacher's toolkit i18n package implements on top of golang.org/x/text.
package msgs

import (
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/text/language"
)

var ffe = i18n.FFE

var (
	// Store errors (C1, §4.2, §7)
	MsgPaymentNotFound     = ffe(language.AmericanEnglish, "PP10001", "Payment not found: %s")
	MsgBatchNotFound       = ffe(language.AmericanEnglish, "PP10002", "Payment batch not found: %s")
	MsgStorageFailure      = ffe(language.AmericanEnglish, "PP10003", "Storage operation failed: %s")
	MsgUnknownPaymentState = ffe(language.AmericanEnglish, "PP10004", "Unrecognised payment status in store: %q")
	MsgUnknownBatchState   = ffe(language.AmericanEnglish, "PP10005", "Unrecognised batch status in store: %q")
	MsgPaymentNotReceived  = ffe(language.AmericanEnglish, "PP10006", "Payment %s is not in RECEIVED status and cannot be batched")

	// Ingress validation errors (C2, §4.3)
	MsgInvalidAmount           = ffe(language.AmericanEnglish, "PP10010", "Amount must be non-negative")
	MsgInvalidRecipientAddress = ffe(language.AmericanEnglish, "PP10011", "Recipient address must not be empty")
	MsgInvalidClientID         = ffe(language.AmericanEnglish, "PP10012", "Client ID must not be empty")
	MsgInvalidAccountName      = ffe(language.AmericanEnglish, "PP10013", "Account name must not be empty")
	MsgInvalidRequestBody      = ffe(language.AmericanEnglish, "PP10014", "Invalid request body: %s")

	// External collaborator errors (C4-C7, §6, §7)
	MsgUnsignedTxServiceTransient = ffe(language.AmericanEnglish, "PP10020", "Transient error from payment-receiver service: %s")
	MsgUnsignedTxServiceRejected  = ffe(language.AmericanEnglish, "PP10021", "Payment-receiver service rejected batch: %s")
	MsgWalletCLISpawnError        = ffe(language.AmericanEnglish, "PP10022", "CLI execution error: %s")
	MsgWalletCLINonZeroExit       = ffe(language.AmericanEnglish, "PP10023", "Wallet signing failed: %s")
	MsgBaseNodeRejected           = ffe(language.AmericanEnglish, "PP10024", "Base node rejected transaction: %s")
	MsgBaseNodeTransient          = ffe(language.AmericanEnglish, "PP10025", "Transient error from base node: %s")

	// Configuration errors (C8, §6)
	MsgMissingConfig = ffe(language.AmericanEnglish, "PP10030", "Missing required configuration: %s")
)
