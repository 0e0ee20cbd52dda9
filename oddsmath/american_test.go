package oddsmath

import (
	"math"
	"testing"
)

func TestComputeProfit_PositiveOdds(t *testing.T) {
	tests := []struct {
		name  string
		odds  string
		stake float64
		want  float64
	}{
		{"Underdog +110", "+110", 50, 55},
		{"Underdog +125", "+125", 25, 31.25},
		{"Even money +100", "+100", 40, 40},
		{"Long shot +300", "+300", 10, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeProfit(tt.odds, tt.stake)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("ComputeProfit(%q, %v) = %v, want %v", tt.odds, tt.stake, got, tt.want)
			}
		})
	}
}

func TestComputeProfit_NegativeOdds(t *testing.T) {
	tests := []struct {
		name  string
		odds  string
		stake float64
		want  float64
	}{
		{"Favorite -150", "-150", 75, 50},
		{"Favorite -110", "-110", 110, 100},
		{"Heavy favorite -200", "-200", 50, 25},
		{"Even money -100", "-100", 40, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeProfit(tt.odds, tt.stake)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("ComputeProfit(%q, %v) = %v, want %v", tt.odds, tt.stake, got, tt.want)
			}
		})
	}
}

func TestComputeProfit_InvalidOdds(t *testing.T) {
	tests := []struct {
		name string
		odds string
	}{
		{"No sign prefix", "100"},
		{"Empty string", ""},
		{"Sign only", "+"},
		{"Non-numeric magnitude", "+abc"},
		{"Zero magnitude", "+0"},
		{"Negative zero", "-0"},
		{"Decimal magnitude", "+1.5"},
		{"Whitespace", " +110"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeProfit(tt.odds, 50)
			if !IsInvalidOdds(err) {
				t.Errorf("ComputeProfit(%q, 50) error = %v, want ErrInvalidOdds", tt.odds, err)
			}
		})
	}
}

func TestComputeProfit_InvalidStake(t *testing.T) {
	for _, stake := range []float64{0, -1, -100.5} {
		_, err := ComputeProfit("+110", stake)
		if !IsInvalidStake(err) {
			t.Errorf("ComputeProfit(+110, %v) error = %v, want ErrInvalidStake", stake, err)
		}
	}
}

func TestParseAmerican(t *testing.T) {
	tests := []struct {
		odds string
		want int
	}{
		{"+110", 110},
		{"-150", -150},
		{"+100", 100},
		{"-100", -100},
	}

	for _, tt := range tests {
		got, err := ParseAmerican(tt.odds)
		if err != nil {
			t.Fatalf("ParseAmerican(%q) unexpected error: %v", tt.odds, err)
		}
		if got != tt.want {
			t.Errorf("ParseAmerican(%q) = %d, want %d", tt.odds, got, tt.want)
		}
	}
}

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"Positive odds +150", 150, 2.5},
		{"Positive odds +200", 200, 3.0},
		{"Even odds +100", 100, 2.0},
		{"Negative odds -150", -150, 1.666666667},
		{"Negative odds -200", -200, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmericanToDecimal(tt.american)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToDecimal(%d) = %f, want %f", tt.american, got, tt.want)
			}
		})
	}

	t.Run("zero is rejected", func(t *testing.T) {
		if _, err := AmericanToDecimal(0); err == nil {
			t.Error("expected error for zero American odds")
		}
	})
}

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		odds string
		want float64
	}{
		{"+100", 0.50},
		{"-110", 0.5238},
		{"-200", 0.6667},
		{"+150", 0.40},
		{"+300", 0.25},
	}

	for _, tt := range tests {
		got, err := ImpliedProbability(tt.odds)
		if err != nil {
			t.Fatalf("ImpliedProbability(%q) unexpected error: %v", tt.odds, err)
		}
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("ImpliedProbability(%q) = %f, want %f", tt.odds, got, tt.want)
		}
	}
}
