package core

// collaborators.go declares the external collaborators spec.md §1 and §6
// name but specify only at the interface level: a gas-payment accounting
// helper, an operators ACL, and an upgrade orchestrator. This core only
// consumes them; their bodies live outside this repo's scope. Each is an
// optional field accepted by ITSConfig/GatewayConfig: GasService by
// ITSConfig.Gas (consulted in ITS.InterchainTransfer), Upgrader by
// ITSConfig.Upgrader (consulted in ITS.Upgrade), and OperatorRegistry by
// GatewayConfig.Operators (consulted in Gateway.isOperator).

// GasService is the gas-payment accounting collaborator (spec.md §6).
type GasService interface {
	PayGas(sender Address, destinationChain, destinationAddress string, payload []byte, spender Address, token Address) error
}

// OperatorRegistry is the "operators" ACL collaborator (spec.md §1).
type OperatorRegistry interface {
	IsOperator(addr Address) bool
	AddOperator(caller, addr Address) error
	RemoveOperator(caller, addr Address) error
}

// Upgrader is the upgrade orchestrator collaborator (spec.md §1).
type Upgrader interface {
	Upgrade(target Address, newWasmHash Hash) error
}
