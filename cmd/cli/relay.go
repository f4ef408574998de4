package cli

// relay.go wraps message approval/execution with a generated request id,
// grounded on core/cross_chain.go's RegisterBridge
// (`b.ID = uuid.New().String()`). Only execute consults relaySeen: a
// --request-id already recorded in this process is skipped. submit always
// draws a fresh id and records it without checking relaySeen, so a retried
// submit relies on ApproveMessages being idempotent per message. relaySeen
// is an in-process map, not a persisted log; a process restart starts a
// fresh relaySeen and falls back on the Gateway's own approval-state
// machine (Execute against an already-consumed approval fails closed) to
// keep a replay from doing anything twice.

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	relaySeenMu sync.Mutex
	relaySeen   = make(map[string]bool)
)

var relayRootCmd = &cobra.Command{Use: "relay", Short: "Idempotent relayer submission helpers", PersistentPreRunE: initState}

var relaySubmitCmd = &cobra.Command{
	Use:   "submit --messages <file> --proof <file>",
	Short: "approve a message batch, tagging the submission with a fresh request id",
	RunE: func(cmd *cobra.Command, _ []string) error {
		messagesPath, _ := cmd.Flags().GetString("messages")
		proofPath, _ := cmd.Flags().GetString("proof")

		messages, err := loadMessages(messagesPath)
		if err != nil {
			return err
		}
		proof, err := loadProof(proofPath)
		if err != nil {
			return err
		}

		requestID := uuid.New().String()
		if err := gateway.ApproveMessages(messages, proof); err != nil {
			return reportErr(err)
		}
		markSubmitted(requestID)
		fmt.Fprintf(cmd.OutOrStdout(), "request_id=%s approved=%d\n", requestID, len(messages))
		return nil
	},
}

var relayExecuteCmd = &cobra.Command{
	Use:   "execute --caller <addr> --source-chain <chain> --message-id <id> --source-address <addr> --payload <hex> [--request-id <id>]",
	Short: "execute an approved inbound Hub message, skipping if request-id was already submitted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		requestID, _ := cmd.Flags().GetString("request-id")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		if alreadySubmitted(requestID) {
			fmt.Fprintf(cmd.OutOrStdout(), "request_id=%s already submitted, skipping\n", requestID)
			return nil
		}
		if err := itsExecuteCmd.RunE(cmd, nil); err != nil {
			return err
		}
		markSubmitted(requestID)
		fmt.Fprintf(cmd.OutOrStdout(), "request_id=%s\n", requestID)
		return nil
	},
}

func markSubmitted(requestID string) {
	relaySeenMu.Lock()
	relaySeen[requestID] = true
	relaySeenMu.Unlock()
}

func alreadySubmitted(requestID string) bool {
	relaySeenMu.Lock()
	defer relaySeenMu.Unlock()
	return relaySeen[requestID]
}

func init() {
	relaySubmitCmd.Flags().String("messages", "", "path to a Message[] JSON file")
	relaySubmitCmd.Flags().String("proof", "", "path to a Proof JSON file")

	relayExecuteCmd.Flags().String("caller", "", "caller address (hex)")
	relayExecuteCmd.Flags().String("source-chain", "", "source chain as reported by the relayer (must be the Hub)")
	relayExecuteCmd.Flags().String("message-id", "", "Gateway message id")
	relayExecuteCmd.Flags().String("source-address", "", "source address as reported by the relayer (must be the Hub)")
	relayExecuteCmd.Flags().String("payload", "", "hex-encoded SendToHub envelope")
	relayExecuteCmd.Flags().String("request-id", "", "idempotency key; a fresh uuid is generated if omitted")

	relayRootCmd.AddCommand(relaySubmitCmd, relayExecuteCmd)
}

// RelayCmd is the assembled "relay" command tree.
var RelayCmd = relayRootCmd

// RegisterRelay attaches the relay command tree to root.
func RegisterRelay(root *cobra.Command) { root.AddCommand(RelayCmd) }
