// Package di contains dependency injection tokens for the yield context.
package di

import (
	"github.com/fd1az/aura-yield/business/yield/app"
	"github.com/fd1az/aura-yield/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Runner = di.NewToken[*app.Runner]("yield.Runner")
)

// Private dependency tokens - internal to yield module
var (
	Contracts  = di.NewToken[app.ContractFactory]("yield:contracts")
	SwapSource = di.NewToken[app.SwapApySource]("yield:swapSource")
	TVL        = di.NewToken[app.TVLProvider]("yield:tvl")
	Composer   = di.NewToken[app.PoolComposer]("yield:composer")
	Reporter   = di.NewToken[app.Reporter]("yield:reporter")
	Notifier   = di.NewToken[app.Notifier]("yield:notifier")
)

func GetRunner(c di.ServiceRegistry) *app.Runner {
	return di.GetToken(c, Runner)
}

func GetContracts(c di.ServiceRegistry) app.ContractFactory {
	return di.GetToken(c, Contracts)
}

func GetSwapSource(c di.ServiceRegistry) app.SwapApySource {
	return di.GetToken(c, SwapSource)
}

func GetTVL(c di.ServiceRegistry) app.TVLProvider {
	return di.GetToken(c, TVL)
}

func GetComposer(c di.ServiceRegistry) app.PoolComposer {
	return di.GetToken(c, Composer)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}

func GetNotifier(c di.ServiceRegistry) app.Notifier {
	return di.GetToken(c, Notifier)
}
