package loans

import (
	"math"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestComputeAll(t *testing.T) {
	terms := LoanTerms{Principal: 500000, AnnualRatePercent: 8.5, TenureYears: 20}
	result := NewCalculator(zap.NewNop()).ComputeAll(terms)

	if math.Abs(result.Payment-4339.12) > 0.01 {
		t.Errorf("Payment = %.2f, expected 4339.12", result.Payment)
	}
	if math.Abs(result.TotalPayment-result.Payment*240) > 1e-6 {
		t.Errorf("TotalPayment = %.2f, expected payment x 240", result.TotalPayment)
	}
	if math.Abs(result.TotalInterest-541387.88) > 0.01 {
		t.Errorf("TotalInterest = %.2f, expected 541387.88", result.TotalInterest)
	}
	if math.Abs(result.InterestShare-108.28) > 0.01 {
		t.Errorf("InterestShare = %.2f, expected 108.28", result.InterestShare)
	}
	if len(result.Schedule) != 240 {
		t.Errorf("len(Schedule) = %d, expected 240", len(result.Schedule))
	}
	if len(result.Yearly) != 20 {
		t.Errorf("len(Yearly) = %d, expected 20", len(result.Yearly))
	}
	if len(result.Groups) != 20 {
		t.Errorf("len(Groups) = %d, expected 20", len(result.Groups))
	}
	if result.Terms != terms {
		t.Errorf("Terms = %+v, expected %+v", result.Terms, terms)
	}
}

func TestComputeAllInvalidTermsIsNeutral(t *testing.T) {
	terms := ParseTerms("", "8.5", "20")
	result := ComputeAll(terms)

	if result.Payment != 0 || result.TotalPayment != 0 || result.TotalInterest != 0 || result.InterestShare != 0 {
		t.Errorf("expected zero headline figures, got %+v", result)
	}
	if result.Schedule == nil || len(result.Schedule) != 0 {
		t.Errorf("expected an empty non-nil schedule, got %v", result.Schedule)
	}
	if result.Yearly == nil || result.Groups == nil {
		t.Error("expected empty non-nil projections")
	}
}

func TestComputeAllIsIdempotent(t *testing.T) {
	terms := LoanTerms{Principal: 1000000, AnnualRatePercent: 10.5, TenureYears: 7}
	if !reflect.DeepEqual(ComputeAll(terms), ComputeAll(terms)) {
		t.Error("expected identical results for identical terms")
	}
}
