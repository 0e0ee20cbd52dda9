package oddsmath

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidOdds indicates an odds string without an explicit sign,
	// with a non-numeric magnitude, or with a magnitude <= 0
	ErrInvalidOdds = errors.New("invalid american odds")

	// ErrInvalidStake indicates a stake <= 0
	ErrInvalidStake = errors.New("invalid stake")
)

// IsInvalidOdds reports whether err is an odds validation failure
func IsInvalidOdds(err error) bool {
	return errors.Is(err, ErrInvalidOdds)
}

// IsInvalidStake reports whether err is a stake validation failure
func IsInvalidStake(err error) bool {
	return errors.Is(err, ErrInvalidStake)
}

// ParseAmerican parses a signed American odds string such as "+125" or
// "-150" into its signed integer value. The sign prefix is mandatory; a
// bare "100" is rejected rather than assumed positive, so that malformed
// odds never flow into a profit computation as a silent zero.
func ParseAmerican(odds string) (int, error) {
	if len(odds) < 2 {
		return 0, fmt.Errorf("%w: %q is too short", ErrInvalidOdds, odds)
	}

	sign := odds[0]
	if sign != '+' && sign != '-' {
		return 0, fmt.Errorf("%w: %q has no leading + or - sign", ErrInvalidOdds, odds)
	}

	// strconv.Atoi would accept a second sign ("++10"), so require the
	// magnitude to start with a digit.
	if odds[1] < '0' || odds[1] > '9' {
		return 0, fmt.Errorf("%w: %q has a non-numeric magnitude", ErrInvalidOdds, odds)
	}

	magnitude, err := strconv.Atoi(odds[1:])
	if err != nil {
		return 0, fmt.Errorf("%w: %q has a non-numeric magnitude", ErrInvalidOdds, odds)
	}
	if magnitude <= 0 {
		return 0, fmt.Errorf("%w: %q magnitude must be positive", ErrInvalidOdds, odds)
	}

	if sign == '-' {
		return -magnitude, nil
	}
	return magnitude, nil
}

// ComputeProfit computes the monetary profit of a won bet from a signed
// American odds string and a positive stake.
// Odds "+N" pay stake*N/100 (underdog payout per $100 staked).
// Odds "-N" pay stake*100/N (favorite: $N staked wins $100).
func ComputeProfit(odds string, stake float64) (float64, error) {
	if stake <= 0 {
		return 0, fmt.Errorf("%w: must be > 0, got %v", ErrInvalidStake, stake)
	}

	american, err := ParseAmerican(odds)
	if err != nil {
		return 0, err
	}

	if american > 0 {
		return stake * float64(american) / 100.0, nil
	}
	return stake * 100.0 / float64(-american), nil
}

// AmericanToDecimal converts a signed American odds value to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("%w: cannot be 0", ErrInvalidOdds)
	}

	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}
	return (100.0 / float64(-american)) + 1.0, nil
}

// ImpliedProbability converts a signed American odds string to its implied
// win probability (0-1)
func ImpliedProbability(odds string) (float64, error) {
	american, err := ParseAmerican(odds)
	if err != nil {
		return 0, err
	}

	decimal, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}

	return 1.0 / decimal, nil
}
