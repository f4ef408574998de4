package cli

// gateway.go exposes C3's Gateway operations as cobra subcommands, grounded
// on cmd/cli/gateway_node.go's RunE-per-operation/PersistentPreRunE-init
// shape. rotate-signers and approve-messages take their WeightedSigners/
// Proof from a JSON file (see codec.go) since a weighted-threshold
// signature bundle has no sane single-line flag encoding.

import (
	"fmt"

	"github.com/spf13/cobra"

	"gatewaycore/core"
)

var gwRootCmd = &cobra.Command{Use: "gateway", Short: "Gateway signer-rotation and message-approval operations", PersistentPreRunE: initState}

var gwInitializeCmd = &cobra.Command{
	Use:   "initialize --signers <file> --retention N --rotation-delay N --domain-separator HEX",
	Short: "seed the initial signer set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		signersPath, _ := cmd.Flags().GetString("signers")
		retention, _ := cmd.Flags().GetUint64("retention")
		rotationDelay, _ := cmd.Flags().GetUint64("rotation-delay")
		domainSep, _ := cmd.Flags().GetString("domain-separator")

		ws, err := loadWeightedSigners(signersPath)
		if err != nil {
			return err
		}
		sep, err := parseHash(domainSep)
		if err != nil {
			return err
		}
		if err := gateway.Initialize(ws, retention, rotationDelay, sep); err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "gateway initialized")
		return nil
	},
}

var gwRotateSignersCmd = &cobra.Command{
	Use:   "rotate-signers --caller <addr> --signers <file> --proof <file> [--bypass-delay]",
	Short: "rotate to a new signer set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		callerHex, _ := cmd.Flags().GetString("caller")
		signersPath, _ := cmd.Flags().GetString("signers")
		proofPath, _ := cmd.Flags().GetString("proof")
		bypass, _ := cmd.Flags().GetBool("bypass-delay")

		caller, err := core.ParseAddress(callerHex)
		if err != nil {
			return err
		}
		newSigners, err := loadWeightedSigners(signersPath)
		if err != nil {
			return err
		}
		proof, err := loadProof(proofPath)
		if err != nil {
			return err
		}
		if err := gateway.RotateSigners(caller, newSigners, proof, bypass); err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "signers rotated")
		return nil
	},
}

var gwApproveMessagesCmd = &cobra.Command{
	Use:   "approve-messages --messages <file> --proof <file>",
	Short: "approve a batch of inbound messages against the current signer set",
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
		if err := gateway.ApproveMessages(messages, proof); err != nil {
			return reportErr(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "approved %d message(s)\n", len(messages))
		return nil
	},
}

var gwCallContractCmd = &cobra.Command{
	Use:   "call-contract --caller <addr> --dest-chain <chain> --dest-address <addr> --payload <hex>",
	Short: "emit an outbound ContractCalled event",
	RunE: func(cmd *cobra.Command, _ []string) error {
		callerHex, _ := cmd.Flags().GetString("caller")
		destChain, _ := cmd.Flags().GetString("dest-chain")
		destAddr, _ := cmd.Flags().GetString("dest-address")
		payloadHex, _ := cmd.Flags().GetString("payload")

		caller, err := core.ParseAddress(callerHex)
		if err != nil {
			return err
		}
		payload, err := hexDecode(payloadHex)
		if err != nil {
			return err
		}
		gateway.CallContract(caller, destChain, destAddr, payload)
		fmt.Fprintln(cmd.OutOrStdout(), "contract call emitted")
		return nil
	},
}

var gwEpochCmd = &cobra.Command{
	Use:   "epoch",
	Short: "print the current signer epoch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "epoch=%d domain_separator=%s\n", gateway.Epoch(), gateway.DomainSeparator())
		return nil
	},
}

func init() {
	gwInitializeCmd.Flags().String("signers", "", "path to a WeightedSigners JSON file")
	gwInitializeCmd.Flags().Uint64("retention", 0, "previous signers retention")
	gwInitializeCmd.Flags().Uint64("rotation-delay", 0, "minimum rotation delay in seconds")
	gwInitializeCmd.Flags().String("domain-separator", "", "32-byte hex domain separator")

	gwRotateSignersCmd.Flags().String("caller", "", "caller address (hex)")
	gwRotateSignersCmd.Flags().String("signers", "", "path to the new WeightedSigners JSON file")
	gwRotateSignersCmd.Flags().String("proof", "", "path to a Proof JSON file")
	gwRotateSignersCmd.Flags().Bool("bypass-delay", false, "bypass the rotation delay (operator + latest-signers only)")

	gwApproveMessagesCmd.Flags().String("messages", "", "path to a Message[] JSON file")
	gwApproveMessagesCmd.Flags().String("proof", "", "path to a Proof JSON file")

	gwCallContractCmd.Flags().String("caller", "", "caller address (hex)")
	gwCallContractCmd.Flags().String("dest-chain", "", "destination chain name")
	gwCallContractCmd.Flags().String("dest-address", "", "destination contract address")
	gwCallContractCmd.Flags().String("payload", "", "hex-encoded payload")

	gwRootCmd.AddCommand(gwInitializeCmd, gwRotateSignersCmd, gwApproveMessagesCmd, gwCallContractCmd, gwEpochCmd)
}

// GatewayCmd is the assembled "gateway" command tree.
var GatewayCmd = gwRootCmd

// RegisterGateway attaches the gateway command tree to root.
func RegisterGateway(root *cobra.Command) { root.AddCommand(GatewayCmd) }

func reportErr(err error) error {
	if code, ok := core.CodeOf(err); ok {
		return fmt.Errorf("%s: %w", code, err)
	}
	return err
}

