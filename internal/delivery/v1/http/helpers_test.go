package http

import (
	"testing"

	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPriceToCents(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr error
	}{
		{in: "600", want: 60000},
		{in: "599.99", want: 59999},
		{in: "0.1", want: 10},
		{in: "0", want: 0},
		{in: "1.005", wantErr: e.ErrPricePrecision},
		{in: "-1", wantErr: e.ErrInvalidPrice},
		{in: "1000000001", wantErr: e.ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := priceToCents(decimal.RequireFromString(tt.in))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestURLFilters(t *testing.T) {
	require.Equal(t, []string{"page-2", "limit-5"}, urlFilters("page-2/limit-5/"))
	require.Nil(t, urlFilters(""))
}
