package cli

// its.go exposes C8's Interchain Token Service facade as cobra
// subcommands, grounded on cmd/cli/gateway_node.go's
// RunE-per-operation/PersistentPreRunE-init shape. Token registration
// subcommands also provision demo ledgertoken.Token ledgers (a token/manager
// pair for register-canonical, one shared ledger for deploy-token) so
// transfer/execute have a concrete balance ledger to move funds through.

import (
	"fmt"

	"github.com/spf13/cobra"

	"gatewaycore/core"
	"gatewaycore/internal/ledgertoken"
)

var itsRootCmd = &cobra.Command{Use: "its", Short: "Interchain Token Service operations", PersistentPreRunE: initState}

var itsRegisterCanonicalCmd = &cobra.Command{
	Use:   "register-canonical --caller <addr> --token-address <addr> --name <n> --symbol <s> --decimals <d>",
	Short: "register an existing chain-native token under LockUnlock custody",
	RunE: func(cmd *cobra.Command, _ []string) error {
		caller, tokenAddr, err := parseTwoAddresses(cmd, "caller", "token-address")
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		symbol, _ := cmd.Flags().GetString("symbol")
		decimals, _ := cmd.Flags().GetUint8("decimals")

		managerAddr := tokenAddr
		tokenID, err := itsFacade.RegisterCanonicalToken(caller, tokenAddr, managerAddr)
		if err != nil {
			return reportErr(err)
		}
		provisionLedgerPair(tokenID, name, symbol, decimals)
		fmt.Fprintf(cmd.OutOrStdout(), "token_id=%s\n", tokenID)
		return nil
	},
}

var itsDeployTokenCmd = &cobra.Command{
	Use:   "deploy-token --caller <addr> --salt <hex32> --name <n> --symbol <s> --decimals <d>",
	Short: "deploy a native interchain token under mint/burn custody",
	RunE: func(cmd *cobra.Command, _ []string) error {
		callerHex, _ := cmd.Flags().GetString("caller")
		caller, err := core.ParseAddress(callerHex)
		if err != nil {
			return err
		}
		salt, err := parseSaltFlag(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		symbol, _ := cmd.Flags().GetString("symbol")
		decimals, _ := cmd.Flags().GetUint8("decimals")

		tokenID, err := itsFacade.DeployInterchainToken(caller, salt, name, symbol, decimals, caller, caller)
		if err != nil {
			return reportErr(err)
		}
		// Mint/burn custody: one ledger plays both the token and manager roles.
		token := ledgertoken.NewToken(name, symbol, decimals)
		tokenRegistry.Register(tokenID, token, token)
		fmt.Fprintf(cmd.OutOrStdout(), "token_id=%s\n", tokenID)
		return nil
	},
}

var itsDeployRemoteCmd = &cobra.Command{
	Use:   "deploy-remote --caller <addr> --salt <hex32> --name <n> --symbol <s> --decimals <d> --minter <hex> --dest-chain <chain>",
	Short: "announce a deployed native interchain token to a trusted remote chain",
	RunE: func(cmd *cobra.Command, _ []string) error {
		callerHex, _ := cmd.Flags().GetString("caller")
		caller, err := core.ParseAddress(callerHex)
		if err != nil {
			return err
		}
		salt, err := parseSaltFlag(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		symbol, _ := cmd.Flags().GetString("symbol")
		decimals, _ := cmd.Flags().GetUint8("decimals")
		minterHex, _ := cmd.Flags().GetString("minter")
		destChain, _ := cmd.Flags().GetString("dest-chain")

		minter, err := hexDecode(minterHex)
		if err != nil {
			return err
		}
		if err := itsFacade.DeployRemoteInterchainToken(caller, salt, name, symbol, decimals, minter, destChain); err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "remote deployment announced")
		return nil
	},
}

var itsTransferCmd = &cobra.Command{
	Use:   "transfer --caller <addr> --token-id <hex32> --dest-chain <chain> --dest-address <hex32> --amount <n> [--data <hex>]",
	Short: "send an interchain transfer through the Hub",
	RunE: func(cmd *cobra.Command, _ []string) error {
		callerHex, _ := cmd.Flags().GetString("caller")
		caller, err := core.ParseAddress(callerHex)
		if err != nil {
			return err
		}
		tokenID, err := parseHashFlag(cmd, "token-id")
		if err != nil {
			return err
		}
		destChain, _ := cmd.Flags().GetString("dest-chain")
		destAddrHex, _ := cmd.Flags().GetString("dest-address")
		amountStr, _ := cmd.Flags().GetString("amount")
		dataHex, _ := cmd.Flags().GetString("data")

		destAddr, err := hexDecode(destAddrHex)
		if err != nil {
			return err
		}
		amount, err := parseUint256(amountStr)
		if err != nil {
			return err
		}
		var data []byte
		if dataHex != "" {
			if data, err = hexDecode(dataHex); err != nil {
				return err
			}
		}
		if err := itsFacade.InterchainTransfer(caller, tokenID, destChain, destAddr, amount, data); err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "transfer sent")
		return nil
	},
}

var itsExecuteCmd = &cobra.Command{
	Use:   "execute --caller <addr> --source-chain <chain> --message-id <id> --source-address <addr> --payload <hex>",
	Short: "execute an approved inbound Hub message",
	RunE: func(cmd *cobra.Command, _ []string) error {
		callerHex, _ := cmd.Flags().GetString("caller")
		caller, err := core.ParseAddress(callerHex)
		if err != nil {
			return err
		}
		sourceChain, _ := cmd.Flags().GetString("source-chain")
		messageID, _ := cmd.Flags().GetString("message-id")
		sourceAddress, _ := cmd.Flags().GetString("source-address")
		payloadHex, _ := cmd.Flags().GetString("payload")

		payload, err := hexDecode(payloadHex)
		if err != nil {
			return err
		}
		if err := itsFacade.Execute(caller, sourceChain, messageID, sourceAddress, payload); err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "executed")
		return nil
	},
}

var itsPauseCmd = &cobra.Command{
	Use:   "pause --caller <addr>",
	Short: "pause ITS token registration, transfers and inbound execution",
	RunE: func(cmd *cobra.Command, _ []string) error {
		caller, err := parseCallerFlag(cmd)
		if err != nil {
			return err
		}
		if err := itsFacade.Pause(caller); err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "paused")
		return nil
	},
}

var itsUnpauseCmd = &cobra.Command{
	Use:   "unpause --caller <addr>",
	Short: "resume state-mutating ITS operations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		caller, err := parseCallerFlag(cmd)
		if err != nil {
			return err
		}
		if err := itsFacade.Unpause(caller); err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "unpaused")
		return nil
	},
}

var itsSetTrustedChainCmd = &cobra.Command{
	Use:   "set-trusted-chain --caller <addr> --chain <name>",
	Short: "add a chain to the trusted allowlist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		caller, err := parseCallerFlag(cmd)
		if err != nil {
			return err
		}
		chain, _ := cmd.Flags().GetString("chain")
		if err := itsFacade.SetTrustedChain(caller, chain); err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "trusted chain set")
		return nil
	},
}

var itsRemoveTrustedChainCmd = &cobra.Command{
	Use:   "remove-trusted-chain --caller <addr> --chain <name>",
	Short: "remove a chain from the trusted allowlist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		caller, err := parseCallerFlag(cmd)
		if err != nil {
			return err
		}
		chain, _ := cmd.Flags().GetString("chain")
		if err := itsFacade.RemoveTrustedChain(caller, chain); err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "trusted chain removed")
		return nil
	},
}

var itsSetFlowLimitCmd = &cobra.Command{
	Use:   "set-flow-limit --caller <addr> --token-id <hex32> --limit <n>",
	Short: "set the per-epoch net flow limit for a token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		caller, err := parseCallerFlag(cmd)
		if err != nil {
			return err
		}
		tokenID, err := parseHashFlag(cmd, "token-id")
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt64("limit")
		if err := itsFacade.SetFlowLimit(caller, tokenID, limit); err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "flow limit set")
		return nil
	},
}

var itsClearFlowLimitCmd = &cobra.Command{
	Use:   "clear-flow-limit --caller <addr> --token-id <hex32>",
	Short: "disable flow-limit checks for a token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		caller, err := parseCallerFlag(cmd)
		if err != nil {
			return err
		}
		tokenID, err := parseHashFlag(cmd, "token-id")
		if err != nil {
			return err
		}
		if err := itsFacade.ClearFlowLimit(caller, tokenID); err != nil {
			return reportErr(err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "flow limit cleared")
		return nil
	},
}

var itsMintCmd = &cobra.Command{
	Use:   "mint --token-id <hex32> --to <addr> --amount <n>",
	Short: "mint demo balance into a registered token's ledger (test fixture helper)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tokenID, err := parseHashFlag(cmd, "token-id")
		if err != nil {
			return err
		}
		toHex, _ := cmd.Flags().GetString("to")
		amountStr, _ := cmd.Flags().GetString("amount")
		to, err := core.ParseAddress(toHex)
		if err != nil {
			return err
		}
		amount, err := parseUint256(amountStr)
		if err != nil {
			return err
		}
		tok, ok := tokenRegistry.Token(tokenID)
		if !ok {
			return fmt.Errorf("unknown token_id %s", tokenID)
		}
		if err := tok.Mint(to, amount); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "minted")
		return nil
	},
}

var itsBalanceCmd = &cobra.Command{
	Use:   "balance --token-id <hex32> --address <addr>",
	Short: "print a registered token's ledger balance for an address",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tokenID, err := parseHashFlag(cmd, "token-id")
		if err != nil {
			return err
		}
		addrHex, _ := cmd.Flags().GetString("address")
		addr, err := core.ParseAddress(addrHex)
		if err != nil {
			return err
		}
		tok, ok := tokenRegistry.Token(tokenID)
		if !ok {
			return fmt.Errorf("unknown token_id %s", tokenID)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok.Balance(addr).String())
		return nil
	},
}

func parseCallerFlag(cmd *cobra.Command) (core.Address, error) {
	s, _ := cmd.Flags().GetString("caller")
	return core.ParseAddress(s)
}

func parseTwoAddresses(cmd *cobra.Command, a, b string) (core.Address, core.Address, error) {
	sa, _ := cmd.Flags().GetString(a)
	sb, _ := cmd.Flags().GetString(b)
	addrA, err := core.ParseAddress(sa)
	if err != nil {
		return core.Address{}, core.Address{}, err
	}
	addrB, err := core.ParseAddress(sb)
	if err != nil {
		return core.Address{}, core.Address{}, err
	}
	return addrA, addrB, nil
}

func parseHashFlag(cmd *cobra.Command, flag string) (core.Hash, error) {
	s, _ := cmd.Flags().GetString(flag)
	return parseHash(s)
}

func parseSaltFlag(cmd *cobra.Command) ([32]byte, error) {
	s, _ := cmd.Flags().GetString("salt")
	h, err := parseHash(s)
	return [32]byte(h), err
}

func provisionLedgerPair(tokenID core.Hash, name, symbol string, decimals uint8) {
	token := ledgertoken.NewToken(name, symbol, decimals)
	manager := ledgertoken.NewToken(name+" (manager)", symbol, decimals)
	tokenRegistry.Register(tokenID, token, manager)
}

func init() {
	itsRegisterCanonicalCmd.Flags().String("caller", "", "caller address (hex)")
	itsRegisterCanonicalCmd.Flags().String("token-address", "", "token contract address (hex)")
	itsRegisterCanonicalCmd.Flags().String("name", "", "token name")
	itsRegisterCanonicalCmd.Flags().String("symbol", "", "token symbol")
	itsRegisterCanonicalCmd.Flags().Uint8("decimals", 18, "token decimals")

	itsDeployTokenCmd.Flags().String("caller", "", "caller address (hex)")
	itsDeployTokenCmd.Flags().String("salt", "", "32-byte hex deploy salt")
	itsDeployTokenCmd.Flags().String("name", "", "token name")
	itsDeployTokenCmd.Flags().String("symbol", "", "token symbol")
	itsDeployTokenCmd.Flags().Uint8("decimals", 18, "token decimals")

	itsDeployRemoteCmd.Flags().String("caller", "", "caller address (hex)")
	itsDeployRemoteCmd.Flags().String("salt", "", "32-byte hex deploy salt")
	itsDeployRemoteCmd.Flags().String("name", "", "token name")
	itsDeployRemoteCmd.Flags().String("symbol", "", "token symbol")
	itsDeployRemoteCmd.Flags().Uint8("decimals", 18, "token decimals")
	itsDeployRemoteCmd.Flags().String("minter", "", "hex-encoded minter address on the destination chain")
	itsDeployRemoteCmd.Flags().String("dest-chain", "", "destination chain name")

	itsTransferCmd.Flags().String("caller", "", "caller address (hex)")
	itsTransferCmd.Flags().String("token-id", "", "32-byte hex token_id")
	itsTransferCmd.Flags().String("dest-chain", "", "destination chain name")
	itsTransferCmd.Flags().String("dest-address", "", "hex-encoded 32-byte destination address")
	itsTransferCmd.Flags().String("amount", "", "transfer amount (decimal)")
	itsTransferCmd.Flags().String("data", "", "optional hex-encoded memo")

	itsExecuteCmd.Flags().String("caller", "", "caller address (hex)")
	itsExecuteCmd.Flags().String("source-chain", "", "source chain as reported by the relayer (must be the Hub)")
	itsExecuteCmd.Flags().String("message-id", "", "Gateway message id")
	itsExecuteCmd.Flags().String("source-address", "", "source address as reported by the relayer (must be the Hub)")
	itsExecuteCmd.Flags().String("payload", "", "hex-encoded SendToHub envelope")

	itsPauseCmd.Flags().String("caller", "", "caller address (hex)")
	itsUnpauseCmd.Flags().String("caller", "", "caller address (hex)")

	itsSetTrustedChainCmd.Flags().String("caller", "", "caller address (hex)")
	itsSetTrustedChainCmd.Flags().String("chain", "", "chain name")
	itsRemoveTrustedChainCmd.Flags().String("caller", "", "caller address (hex)")
	itsRemoveTrustedChainCmd.Flags().String("chain", "", "chain name")

	itsSetFlowLimitCmd.Flags().String("caller", "", "caller address (hex)")
	itsSetFlowLimitCmd.Flags().String("token-id", "", "32-byte hex token_id")
	itsSetFlowLimitCmd.Flags().Int64("limit", 0, "net flow limit per epoch")
	itsClearFlowLimitCmd.Flags().String("caller", "", "caller address (hex)")
	itsClearFlowLimitCmd.Flags().String("token-id", "", "32-byte hex token_id")

	itsMintCmd.Flags().String("token-id", "", "32-byte hex token_id")
	itsMintCmd.Flags().String("to", "", "recipient address (hex)")
	itsMintCmd.Flags().String("amount", "", "amount (decimal)")

	itsBalanceCmd.Flags().String("token-id", "", "32-byte hex token_id")
	itsBalanceCmd.Flags().String("address", "", "address (hex)")

	itsRootCmd.AddCommand(
		itsRegisterCanonicalCmd, itsDeployTokenCmd, itsDeployRemoteCmd,
		itsTransferCmd, itsExecuteCmd, itsPauseCmd, itsUnpauseCmd,
		itsSetTrustedChainCmd, itsRemoveTrustedChainCmd,
		itsSetFlowLimitCmd, itsClearFlowLimitCmd, itsMintCmd, itsBalanceCmd,
	)
}

// ITSCmd is the assembled "its" command tree.
var ITSCmd = itsRootCmd

// RegisterITS attaches the its command tree to root.
func RegisterITS(root *cobra.Command) { root.AddCommand(ITSCmd) }
