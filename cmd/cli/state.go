package cli

// state.go wires the package-level, mutex-guarded singleton the gateway
// and its subcommands share, grounded on cmd/cli/gateway_node.go's
// gwNode/gwMu/gwInit idempotent-lazy-init pattern. Unlike a long-running
// node, Gateway/ITS have no start/stop lifecycle: cliInit just builds the
// facades once per process and every subcommand's RunE reuses them.

import (
	"fmt"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gatewaycore/core"
	"gatewaycore/internal/ledgertoken"
	"gatewaycore/pkg/config"
)

var (
	stateMu       sync.RWMutex
	store         core.Store
	gateway       *core.Gateway
	itsFacade     *core.ITS
	tokenRegistry *ledgertoken.Registry
	owner         *core.Ownable
	operator      *core.Operatable
)

// wallClock backs the store's flow-limiter epoch bucketing. Real deployments
// plug in the host's ledger clock; the CLI has no block clock of its own,
// so it uses the process wall clock.
func wallClock() uint64 { return uint64(time.Now().Unix()) }

func initState(_ *cobra.Command, _ []string) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	if gateway != nil {
		return nil
	}
	_ = godotenv.Load()

	if lv := viper.GetString("logging.level"); lv != "" {
		parsed, err := logrus.ParseLevel(lv)
		if err != nil {
			return fmt.Errorf("parse logging.level: %w", err)
		}
		logrus.SetLevel(parsed)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logrus.WithError(err).Warn("no config file found, using defaults")
		cfg = &config.AppConfig
	}

	ownerAddr, err := parseAddressOrZero(cfg.Gateway.Owner)
	if err != nil {
		return fmt.Errorf("gateway.owner: %w", err)
	}
	operatorAddr, err := parseAddressOrZero(cfg.Gateway.Operator)
	if err != nil {
		return fmt.Errorf("gateway.operator: %w", err)
	}
	owner = core.NewOwnable(ownerAddr)
	operator = core.NewOperatable(operatorAddr)

	st := core.NewInMemoryStore(func() uint64 { return wallClock() / core.EpochSeconds })
	store = st

	sink := core.NewZapEventSink(nil)
	gateway = core.NewGateway(core.GatewayConfig{
		Store:    st,
		Events:   sink,
		Owner:    owner,
		Operator: operator,
		Clock:    func() uint64 { return wallClock() },
	})

	tokenRegistry = ledgertoken.NewRegistry()
	tokenHandler := core.NewTokenHandler(tokenRegistry.Lookup)
	flowLimiter := core.NewFlowLimiter(st, func() uint64 { return wallClock() }, owner, sink)

	itsFacade = core.NewITS(core.ITSConfig{
		Store:           st,
		Gateway:         gateway,
		TokenHandler:    tokenHandler,
		FlowLimiter:     flowLimiter,
		Events:          sink,
		Owner:           owner,
		ChainName:       cfg.ITS.ChainName,
		HubChainName:    cfg.ITS.HubChainName,
		HubChainAddress: cfg.ITS.HubChainAddress,
	})
	return nil
}

func parseAddressOrZero(s string) (core.Address, error) {
	if s == "" {
		return core.Address{}, nil
	}
	return core.ParseAddress(s)
}
