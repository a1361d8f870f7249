package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		previous string
		policy   UnitPolicy
		want     *string
	}{
		{"missing marker", ".", "3.1", UnitPolicy{Kind: KindLevel}, nil},
		{"empty", "", "3.1", UnitPolicy{Kind: KindLevel}, nil},
		{"garbage", "n/a", "3.1", UnitPolicy{Kind: KindLevel}, nil},
		{"percent level", "4.25", "", UnitPolicy{Kind: KindLevel, Unit: UnitPercent}, ptr("4.3%")},
		{"plain level", "52.7", "", UnitPolicy{Kind: KindLevel}, ptr("52.7")},
		{"negative level has no extra sign", "-1.24", "", UnitPolicy{Kind: KindLevel}, ptr("-1.2")},
		{"millions from thousands", "1324", "", UnitPolicy{Kind: KindLevel, Unit: UnitMillions}, ptr("1.3M")},
		{"billions from millions", "-78912", "", UnitPolicy{Kind: KindLevel, Unit: UnitBillions}, ptr("-78.9B")},
		{"pct change", "3.3", "3.1", UnitPolicy{Kind: KindPctChange}, ptr("+6.5%")},
		{"pct change negative", "310.2", "320.0", UnitPolicy{Kind: KindPctChange}, ptr("-3.1%")},
		{"pct change vs negative base", "-1", "-2", UnitPolicy{Kind: KindPctChange}, ptr("+50.0%")},
		{"pct change zero base", "3.3", "0", UnitPolicy{Kind: KindPctChange}, nil},
		{"pct change missing previous", "3.3", ".", UnitPolicy{Kind: KindPctChange}, nil},
		{"change thousands", "159500", "159244", UnitPolicy{Kind: KindChange, Unit: UnitThousands}, ptr("+256K")},
		{"change thousands negative", "159000", "159244", UnitPolicy{Kind: KindChange, Unit: UnitThousands}, ptr("-244K")},
		{"change plain", "4.2", "4.0", UnitPolicy{Kind: KindChange}, ptr("+0.2")},
		{"change no movement", "4.0", "4.0", UnitPolicy{Kind: KindChange}, ptr("0.0")},
		{"change rounds to zero", "4.00", "4.04", UnitPolicy{Kind: KindChange}, ptr("0.0")},
		{"change millions", "1450", "1300", UnitPolicy{Kind: KindChange, Unit: UnitMillions}, ptr("+0.2M")},
		{"unknown kind", "1", "1", UnitPolicy{Kind: "ratio"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatValue(tt.raw, tt.previous, tt.policy)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func ptr(s string) *string { return &s }
