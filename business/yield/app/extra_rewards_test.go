package app

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

// 31,536,000 USD of TVL makes one token per second at $1 exactly 100%.
const yearTVL = "31536000"

func TestExtraRewardEnumerator_Sum(t *testing.T) {
	primary := addr(1)

	tests := []struct {
		name  string
		setup func(f *fakeFactory)
		price priceMap
		want  string
	}{
		{
			name: "no extra streams",
			setup: func(f *fakeFactory) {
				f.distributors[primary] = &fakeDistributor{}
			},
			want: "0",
		},
		{
			name: "middle stream fails, others count",
			setup: func(f *fakeFactory) {
				f.distributors[primary] = &fakeDistributor{extras: []common.Address{addr(10), addr(11), addr(12)}}
				f.distributors[addr(10)] = &fakeDistributor{rate: wei(1), token: addr(20)}
				f.distributors[addr(11)] = &fakeDistributor{rateErr: errors.New("boom")}
				f.distributors[addr(12)] = &fakeDistributor{rate: wei(1), token: addr(22)}
				f.wrapped[addr(20)] = addr(30)
				f.wrapped[addr(22)] = addr(32)
			},
			price: priceMap{addr(30): d("1"), addr(32): d("0.5")},
			want:  "150",
		},
		{
			name: "unpriced base token contributes zero",
			setup: func(f *fakeFactory) {
				f.distributors[primary] = &fakeDistributor{extras: []common.Address{addr(10)}}
				f.distributors[addr(10)] = &fakeDistributor{rate: wei(1), token: addr(20)}
				f.wrapped[addr(20)] = addr(30)
			},
			price: priceMap{},
			want:  "0",
		},
		{
			name: "missing base token skips the stream",
			setup: func(f *fakeFactory) {
				f.distributors[primary] = &fakeDistributor{extras: []common.Address{addr(10), addr(12)}}
				f.distributors[addr(10)] = &fakeDistributor{rate: wei(1), token: addr(20)}
				f.distributors[addr(12)] = &fakeDistributor{rate: wei(2), token: addr(22)}
				f.wrapped[addr(22)] = addr(32)
			},
			price: priceMap{addr(32): d("1")},
			want:  "200",
		},
		{
			name: "length read fails",
			setup: func(f *fakeFactory) {
				f.distributors[primary] = &fakeDistributor{lengthErr: errors.New("reverted")}
			},
			want: "0",
		},
		{
			name: "length out of range",
			setup: func(f *fakeFactory) {
				f.distributors[primary] = &fakeDistributor{length: big.NewInt(maxExtraRewards + 1)}
			},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeFactory()
			tt.setup(f)

			e := NewExtraRewardEnumerator(f, tt.price, &mockLogger{})
			got := e.Sum(context.Background(), primary, d(yearTVL))

			assert.True(t, got.Equal(d(tt.want)), "Sum() = %s, want %s", got, tt.want)
		})
	}
}

func TestExtraRewardEnumerator_ZeroRateSkipsTokenReads(t *testing.T) {
	primary := addr(1)
	idle := &fakeDistributor{rate: big.NewInt(0), token: addr(20)}

	f := newFakeFactory()
	f.distributors[primary] = &fakeDistributor{extras: []common.Address{addr(10)}}
	f.distributors[addr(10)] = idle
	f.wrapped[addr(20)] = addr(30)

	e := NewExtraRewardEnumerator(f, priceMap{addr(30): d("1")}, &mockLogger{})
	got := e.Sum(context.Background(), primary, d(yearTVL))

	assert.True(t, got.IsZero())
	assert.Equal(t, 0, idle.tokenReads)
}

func TestExtraRewardEnumerator_ZeroTVL(t *testing.T) {
	primary := addr(1)
	f := newFakeFactory()
	f.distributors[primary] = &fakeDistributor{extras: []common.Address{addr(10)}}
	f.distributors[addr(10)] = &fakeDistributor{rate: wei(1), token: addr(20)}
	f.wrapped[addr(20)] = addr(30)

	e := NewExtraRewardEnumerator(f, priceMap{addr(30): d("1")}, &mockLogger{})
	got := e.Sum(context.Background(), primary, d("0"))

	assert.True(t, got.IsZero())
}
