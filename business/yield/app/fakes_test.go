package app

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	blockchainDomain "github.com/fd1az/aura-yield/business/blockchain/domain"
	pricingDomain "github.com/fd1az/aura-yield/business/pricing/domain"
	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/internal/logger"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

var _ logger.LoggerInterface = (*mockLogger)(nil)

var errNoContract = errors.New("execution reverted")

func wei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func addr(n int) common.Address {
	return common.BigToAddress(big.NewInt(int64(n)))
}

type fakeDistributor struct {
	rate      *big.Int
	rateErr   error
	token     common.Address
	tokenErr  error
	extras    []common.Address
	length    *big.Int
	lengthErr error
	asset     common.Address
	assetErr  error

	mu         sync.Mutex
	tokenReads int
}

func (f *fakeDistributor) RewardRate(context.Context) (*big.Int, error) {
	if f.rateErr != nil {
		return nil, f.rateErr
	}
	if f.rate == nil {
		return big.NewInt(0), nil
	}
	return f.rate, nil
}

func (f *fakeDistributor) RewardToken(context.Context) (common.Address, error) {
	f.mu.Lock()
	f.tokenReads++
	f.mu.Unlock()
	return f.token, f.tokenErr
}

func (f *fakeDistributor) ExtraRewardsLength(context.Context) (*big.Int, error) {
	if f.lengthErr != nil {
		return nil, f.lengthErr
	}
	if f.length != nil {
		return f.length, nil
	}
	return big.NewInt(int64(len(f.extras))), nil
}

func (f *fakeDistributor) ExtraRewards(_ context.Context, index *big.Int) (common.Address, error) {
	i := index.Int64()
	if i < 0 || i >= int64(len(f.extras)) {
		return common.Address{}, fmt.Errorf("index %d: %w", i, errNoContract)
	}
	return f.extras[i], nil
}

func (f *fakeDistributor) Asset(context.Context) (common.Address, error) {
	return f.asset, f.assetErr
}

type fakeConverter struct {
	mul int64
	err error
}

func (f fakeConverter) ConvertCrvToCvx(_ context.Context, amount *big.Int) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return new(big.Int).Mul(amount, big.NewInt(f.mul)), nil
}

type fakeWrapped struct {
	base common.Address
	ok   bool
}

func (f fakeWrapped) BaseToken(context.Context) (common.Address, error) {
	if !f.ok {
		return common.Address{}, errNoContract
	}
	return f.base, nil
}

type missingPoolToken struct{}

func (missingPoolToken) GetPoolID(context.Context) ([32]byte, error) { return [32]byte{}, errNoContract }
func (missingPoolToken) TotalSupply(context.Context) (*big.Int, error) {
	return nil, errNoContract
}
func (missingPoolToken) Decimals(context.Context) (uint8, error) { return 0, errNoContract }

type fakeFactory struct {
	distributors map[common.Address]*fakeDistributor
	converters   map[common.Address]fakeConverter
	wrapped      map[common.Address]common.Address
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{
		distributors: make(map[common.Address]*fakeDistributor),
		converters:   make(map[common.Address]fakeConverter),
		wrapped:      make(map[common.Address]common.Address),
	}
}

func (f *fakeFactory) Distributor(a common.Address) RewardDistributor {
	if d, ok := f.distributors[a]; ok {
		return d
	}
	return &fakeDistributor{
		rateErr:   errNoContract,
		tokenErr:  errNoContract,
		lengthErr: errNoContract,
		assetErr:  errNoContract,
	}
}

func (f *fakeFactory) Converter(a common.Address) RewardConverter {
	if c, ok := f.converters[a]; ok {
		return c
	}
	return fakeConverter{err: errNoContract}
}

func (f *fakeFactory) Wrapped(a common.Address) WrappedToken {
	base, ok := f.wrapped[a]
	return fakeWrapped{base: base, ok: ok}
}

func (f *fakeFactory) PoolToken(common.Address) PoolToken {
	return missingPoolToken{}
}

type priceMap map[common.Address]decimal.Decimal

func (p priceMap) PriceForContract(_ context.Context, token common.Address) decimal.Decimal {
	return p[token]
}

type fakeSwap map[string][]decimal.Decimal

func (f fakeSwap) SwapApy(_ context.Context, id string) []decimal.Decimal {
	return f[id]
}

type fakeTVL struct {
	supplyBal decimal.Decimal
	tokens    decimal.Decimal
	supply    decimal.Decimal
	err       error

	gotLP          common.Address
	gotPrices      []decimal.Decimal
	gotSupplyPrice decimal.Decimal
}

func (f *fakeTVL) SupplyBalTVL(_ context.Context, _, lp common.Address) (decimal.Decimal, error) {
	f.gotLP = lp
	return f.supplyBal, f.err
}

func (f *fakeTVL) TokensBalTVL(_ context.Context, _ common.Address, _ [32]byte, prices []decimal.Decimal) (decimal.Decimal, error) {
	f.gotPrices = prices
	return f.tokens, f.err
}

func (f *fakeTVL) SupplyTVL(_ context.Context, _ common.Address, price decimal.Decimal) (decimal.Decimal, error) {
	f.gotSupplyPrice = price
	return f.supply, f.err
}

type fakePrices struct {
	table pricingDomain.PriceTable
	err   error
}

func (f fakePrices) Table(context.Context) (pricingDomain.PriceTable, error) {
	return f.table, f.err
}

type fakeBlocks struct {
	number uint64
	err    error
}

func (f fakeBlocks) LatestBlock(context.Context) (*blockchainDomain.Block, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &blockchainDomain.Block{Number: f.number, Timestamp: time.Now()}, nil
}

// scriptedComposer returns a queued APY per pool per call.
type scriptedComposer struct {
	mu    sync.Mutex
	apys  map[string][]decimal.Decimal
	fails map[string]error
	calls map[string]int
}

func (s *scriptedComposer) Compose(_ context.Context, pool domain.Pool, _ pricingDomain.PriceTable) (*domain.ApyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	n := s.calls[pool.Name]
	s.calls[pool.Name]++

	if err := s.fails[pool.Name]; err != nil {
		return nil, err
	}
	seq := s.apys[pool.Name]
	apy := seq[len(seq)-1]
	if n < len(seq) {
		apy = seq[n]
	}
	return &domain.ApyResult{Pool: pool.Name, Kind: pool.Kind, APY: apy, TVL: d("1000")}, nil
}

type recordingReporter struct {
	mu      sync.Mutex
	started bool
	stopped bool
	cycles  []*domain.Cycle
}

func (r *recordingReporter) Start(context.Context) error {
	r.started = true
	return nil
}

func (r *recordingReporter) Report(_ context.Context, c *domain.Cycle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cycles = append(r.cycles, c)
}

func (r *recordingReporter) Stop() error {
	r.stopped = true
	return nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []domain.Alert
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, a domain.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return n.err
}
