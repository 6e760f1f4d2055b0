package recovery

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type SavingsType string

const (
	SavingsMoney    SavingsType = "Money"
	SavingsTime     SavingsType = "Time"
	SavingsCalories SavingsType = "Calories"
	SavingsCustom   SavingsType = "Custom"
)

func (t SavingsType) IsValid() bool {
	switch t {
	case SavingsMoney, SavingsTime, SavingsCalories, SavingsCustom:
		return true
	default:
		return false
	}
}

// DefaultUnit is the display unit used when a savings entry does not name one.
func (t SavingsType) DefaultUnit() string {
	switch t {
	case SavingsMoney:
		return "$"
	case SavingsTime:
		return "min"
	case SavingsCalories:
		return "kcal"
	default:
		return ""
	}
}

func ParseSavingsType(input string) (SavingsType, error) {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case "", "money", "cash":
		return SavingsMoney, nil
	case "time", "minutes":
		return SavingsTime, nil
	case "calories", "kcal":
		return SavingsCalories, nil
	case "custom":
		return SavingsCustom, nil
	default:
		return "", ValidationError{Field: "savingsType", Reason: fmt.Sprintf("unknown savings type %q", input)}
	}
}

type Periodicity string

const (
	PerDay  Periodicity = "Per Day"
	PerWeek Periodicity = "Per Week"
)

func (p Periodicity) IsValid() bool {
	return p == PerDay || p == PerWeek
}

// Period is the span of clean time one AmountSaved accrues over.
func (p Periodicity) Period() time.Duration {
	if p == PerWeek {
		return 7 * 24 * time.Hour
	}
	return 24 * time.Hour
}

func ParsePeriodicity(input string) (Periodicity, error) {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case "", "day", "daily", "per day", "per-day":
		return PerDay, nil
	case "week", "weekly", "per week", "per-week":
		return PerWeek, nil
	default:
		return "", ValidationError{Field: "periodicity", Reason: fmt.Sprintf("unknown periodicity %q", input)}
	}
}

// Savings is an accrual rate attributed to one addiction.
type Savings struct {
	ID          int64
	AddictionID int64
	AmountSaved float64
	Unit        string
	SavingsType SavingsType
	Periodicity Periodicity
	CreatedAt   time.Time
}

type SavingsInput struct {
	AddictionID int64
	AmountSaved float64
	Unit        string
	SavingsType SavingsType
	Periodicity Periodicity
}

func NewSavings(in SavingsInput) (*Savings, error) {
	if in.AddictionID <= 0 {
		return nil, ValidationError{Field: "addiction", Reason: "is required"}
	}
	if math.IsNaN(in.AmountSaved) || math.IsInf(in.AmountSaved, 0) || in.AmountSaved < 0 {
		return nil, ValidationError{Field: "amountSaved", Reason: "must be a non-negative number"}
	}
	if !in.SavingsType.IsValid() {
		return nil, ValidationError{Field: "savingsType", Reason: fmt.Sprintf("unknown savings type %q", in.SavingsType)}
	}
	if !in.Periodicity.IsValid() {
		return nil, ValidationError{Field: "periodicity", Reason: fmt.Sprintf("unknown periodicity %q", in.Periodicity)}
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = in.SavingsType.DefaultUnit()
	}
	return &Savings{
		AddictionID: in.AddictionID,
		AmountSaved: in.AmountSaved,
		Unit:        unit,
		SavingsType: in.SavingsType,
		Periodicity: in.Periodicity,
	}, nil
}

// AccruedOver returns the total saved across cleanTime at this rate.
func (s Savings) AccruedOver(cleanTime time.Duration) float64 {
	if cleanTime <= 0 {
		return 0
	}
	return s.AmountSaved * float64(cleanTime) / float64(s.Periodicity.Period())
}
