package core

// its_token_id.go implements C5: deterministic derivation of token IDs,
// byte-for-byte per spec.md §4.5 (which itself mirrors
// original_source/contracts/stellar-interchain-token-service/src/token_id.rs).
// These formulas are a protocol invariant: the prefixes and ZERO_ADDRESS
// placement must never change once deployed.

const (
	prefixCanonicalTokenSalt  = "canonical-token-salt"
	prefixInterchainTokenSalt = "interchain-token-salt"
	prefixTokenID             = "its-interchain-token-id"
)

// ChainNameHash hashes a chain name for use in salt derivation.
func ChainNameHash(chainName string) Hash {
	var buf []byte
	putString(&buf, chainName)
	return keccak256(buf)
}

func tokenIDFromSalt(deploySalt Hash) Hash {
	return keccak256([]byte(prefixTokenID), ZeroAddress.Bytes(), deploySalt.Bytes())
}

// CanonicalDeploySalt derives the salt for a canonical (chain-native)
// token registration.
func CanonicalDeploySalt(chainNameHash Hash, tokenAddress Address) Hash {
	return keccak256([]byte(prefixCanonicalTokenSalt), chainNameHash.Bytes(), tokenAddress.Bytes())
}

// CanonicalInterchainTokenID derives the token_id for a canonical token.
func CanonicalInterchainTokenID(chainNameHash Hash, tokenAddress Address) Hash {
	return tokenIDFromSalt(CanonicalDeploySalt(chainNameHash, tokenAddress))
}

// InterchainDeploySalt derives the salt for a user-deployed native
// interchain token.
func InterchainDeploySalt(chainNameHash Hash, deployer Address, userSalt [32]byte) Hash {
	return keccak256([]byte(prefixInterchainTokenSalt), chainNameHash.Bytes(), deployer.Bytes(), userSalt[:])
}

// InterchainTokenID derives the token_id for a user-deployed native
// interchain token.
func InterchainTokenID(chainNameHash Hash, deployer Address, userSalt [32]byte) Hash {
	return tokenIDFromSalt(InterchainDeploySalt(chainNameHash, deployer, userSalt))
}

// DeployedAddresses is what the host's contract-address-derivation would
// return for a given token_id; this core only specifies the salts fed
// into that derivation (spec.md §4.5), not the host's address-derivation
// algorithm itself (an external collaborator per spec.md §1).
type DeployedAddresses struct {
	TokenAddress        Address
	TokenManagerAddress Address
}

// AddressDeriver abstracts the host's deterministic contract-address
// derivation from a salt and a fixed WASM/bytecode hash.
type AddressDeriver interface {
	DeriveAddress(wasmHash Hash, salt Hash) Address
}

// DeriveDeployedAddresses predicts the local token and token-manager
// addresses for a token_id, given the host's address deriver and the
// WASM hashes recorded at gateway initialization.
func DeriveDeployedAddresses(deriver AddressDeriver, tokenID Hash, tokenWasmHash, tokenManagerWasmHash Hash) DeployedAddresses {
	return DeployedAddresses{
		TokenAddress:        deriver.DeriveAddress(tokenWasmHash, tokenID),
		TokenManagerAddress: deriver.DeriveAddress(tokenManagerWasmHash, tokenID),
	}
}
