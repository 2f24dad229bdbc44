// Package contractstest provides an in-memory ethereum.ContractCaller that
// decodes calldata with real ABIs and answers with ABI-packed outputs.
package contractstest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Handler answers one method call with its decoded arguments.
type Handler func(args []any) ([]any, error)

// Chain routes calls by contract address and method name.
type Chain struct {
	mu       sync.Mutex
	abis     []abi.ABI
	handlers map[common.Address]map[string]Handler
	calls    map[string]int
}

var _ ethereum.ContractCaller = (*Chain)(nil)

// New parses abiJSON and panics on malformed input.
func New(abiJSON ...string) *Chain {
	c := &Chain{
		handlers: make(map[common.Address]map[string]Handler),
		calls:    make(map[string]int),
	}
	for _, j := range abiJSON {
		parsed, err := abi.JSON(strings.NewReader(j))
		if err != nil {
			panic(fmt.Sprintf("contractstest: %v", err))
		}
		c.abis = append(c.abis, parsed)
	}
	return c
}

// On installs h for method on addr.
func (c *Chain) On(addr common.Address, method string, h Handler) *Chain {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handlers[addr] == nil {
		c.handlers[addr] = make(map[string]Handler)
	}
	c.handlers[addr][method] = h
	return c
}

// Returns answers method on addr with fixed values.
func (c *Chain) Returns(addr common.Address, method string, values ...any) *Chain {
	return c.On(addr, method, func([]any) ([]any, error) { return values, nil })
}

// Fails makes method on addr fail with err.
func (c *Chain) Fails(addr common.Address, method string, err error) *Chain {
	return c.On(addr, method, func([]any) ([]any, error) { return nil, err })
}

// Calls reports how often method was called on addr.
func (c *Chain) Calls(addr common.Address, method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[addr.Hex()+"."+method]
}

// CallContract implements ethereum.ContractCaller. Unhandled calls revert.
func (c *Chain) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if msg.To == nil || len(msg.Data) < 4 {
		return nil, errors.New("contractstest: malformed call")
	}

	method, err := c.method(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, fmt.Errorf("contractstest: unpack %s args: %w", method.Name, err)
	}

	c.mu.Lock()
	c.calls[msg.To.Hex()+"."+method.Name]++
	h := c.handlers[*msg.To][method.Name]
	c.mu.Unlock()

	if h == nil {
		return nil, fmt.Errorf("execution reverted: %s not handled on %s", method.Name, msg.To.Hex())
	}

	out, err := h(args)
	if err != nil {
		return nil, err
	}
	return method.Outputs.Pack(out...)
}

func (c *Chain) method(selector []byte) (*abi.Method, error) {
	for _, a := range c.abis {
		if m, err := a.MethodById(selector); err == nil {
			return m, nil
		}
	}
	return nil, fmt.Errorf("contractstest: unknown selector %x", selector)
}

// Wei returns n * 10^18.
func Wei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}
