package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSplitKind is returned when a split kind cannot be recognized.
var ErrUnknownSplitKind = errors.New("unknown split kind")

// SplitKind identifies a split policy.
type SplitKind int

const (
	SplitEqual SplitKind = iota
	SplitPercentage
	SplitWeighted
)

// String returns the wire name of the split kind.
func (k SplitKind) String() string {
	switch k {
	case SplitEqual:
		return "equal"
	case SplitPercentage:
		return "percentage"
	case SplitWeighted:
		return "weighted"
	default:
		return fmt.Sprintf("SplitKind(%d)", int(k))
	}
}

// ParseSplitKind parses a wire name. The empty string means equal.
func ParseSplitKind(s string) (SplitKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "equal":
		return SplitEqual, nil
	case "percentage", "percent":
		return SplitPercentage, nil
	case "weighted", "weight", "custom":
		return SplitWeighted, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSplitKind, s)
	}
}

// Split is a cost-splitting policy. The set of implementations is closed:
// EqualSplit, PercentageSplit and WeightedSplit.
type Split interface {
	// Kind returns the policy kind.
	Kind() SplitKind
	// Values returns the per-participant values (nil for equal splits).
	Values() []float64

	isSplit()
}

// EqualSplit divides the amount evenly among participants.
type EqualSplit struct{}

// PercentageSplit charges participant i Percentages[i]% of the amount.
// Percentages are not required to sum to 100.
type PercentageSplit struct {
	Percentages []float64
}

// WeightedSplit charges participant i Weights[i]/sum(Weights) of the amount.
type WeightedSplit struct {
	Weights []float64
}

func (EqualSplit) Kind() SplitKind      { return SplitEqual }
func (PercentageSplit) Kind() SplitKind { return SplitPercentage }
func (WeightedSplit) Kind() SplitKind   { return SplitWeighted }

func (EqualSplit) Values() []float64        { return nil }
func (s PercentageSplit) Values() []float64 { return s.Percentages }
func (s WeightedSplit) Values() []float64   { return s.Weights }

func (EqualSplit) isSplit()      {}
func (PercentageSplit) isSplit() {}
func (WeightedSplit) isSplit()   {}

// NewSplit builds the split for kind. Values are ignored for equal splits.
func NewSplit(kind SplitKind, values []float64) (Split, error) {
	switch kind {
	case SplitEqual:
		return EqualSplit{}, nil
	case SplitPercentage:
		return PercentageSplit{Percentages: append([]float64(nil), values...)}, nil
	case SplitWeighted:
		return WeightedSplit{Weights: append([]float64(nil), values...)}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSplitKind, int(kind))
	}
}

// SplitKindOf returns the kind of s, treating nil as equal.
func SplitKindOf(s Split) SplitKind {
	if s == nil {
		return SplitEqual
	}
	return s.Kind()
}

// SplitValuesOf returns the values of s, treating nil as equal.
func SplitValuesOf(s Split) []float64 {
	if s == nil {
		return nil
	}
	return s.Values()
}
