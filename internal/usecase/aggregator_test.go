package usecase

import "testing"

func TestAggregate(t *testing.T) {
	testCases := []struct {
		name    string
		prices  []float64
		wantMin float64
		wantAvg float64
	}{
		{
			name:    "single price",
			prices:  []float64{128.00},
			wantMin: 128.00,
			wantAvg: 128.00,
		},
		{
			name:    "minimum and mean of three",
			prices:  []float64{100.00, 200.00, 150.00},
			wantMin: 100.00,
			wantAvg: 150.00,
		},
		{
			name:    "mean rounded to two decimal places",
			prices:  []float64{10.00, 20.00, 20.00},
			wantMin: 10.00,
			wantAvg: 16.67, // 16.666... rounds up
		},
		{
			name:    "minimum not at either end",
			prices:  []float64{300.00, 50.00, 400.00},
			wantMin: 50.00,
			wantAvg: 250.00,
		},
		{
			name:    "duplicate minimum",
			prices:  []float64{80.00, 80.00, 120.00},
			wantMin: 80.00,
			wantAvg: 93.33,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stats := Aggregate(tc.prices)

			if stats.Min == nil || stats.Avg == nil {
				t.Fatalf("Aggregate(%v) returned absent min/avg for non-empty input", tc.prices)
			}
			if *stats.Min != tc.wantMin {
				t.Errorf("Min = %v, want %v", *stats.Min, tc.wantMin)
			}
			if *stats.Avg != tc.wantAvg {
				t.Errorf("Avg = %v, want %v", *stats.Avg, tc.wantAvg)
			}
		})
	}
}

func TestAggregate_Empty(t *testing.T) {
	stats := Aggregate(nil)

	if stats.Min != nil {
		t.Errorf("Min = %v, want absent for empty input", *stats.Min)
	}
	if stats.Avg != nil {
		t.Errorf("Avg = %v, want absent for empty input", *stats.Avg)
	}
	if stats.Prices == nil {
		t.Error("Prices should be an empty slice, not nil")
	}
	if len(stats.Prices) != 0 {
		t.Errorf("Prices = %v, want empty", stats.Prices)
	}
}

func TestAggregate_PreservesOrder(t *testing.T) {
	input := []float64{300.00, 50.00, 400.00, 120.00}
	stats := Aggregate(input)

	if len(stats.Prices) != len(input) {
		t.Fatalf("Prices length = %d, want %d", len(stats.Prices), len(input))
	}
	for i := range input {
		if stats.Prices[i] != input[i] {
			t.Errorf("Prices[%d] = %v, want %v (scrape order must be preserved)",
				i, stats.Prices[i], input[i])
		}
	}
}

// Min must never exceed any element and Avg must lie within [min, max]
func TestAggregate_Bounds(t *testing.T) {
	sequences := [][]float64{
		{1.00},
		{10.00, 20.00},
		{5.50, 3.25, 9.99, 3.25},
		{100.00, 200.00, 150.00, 175.50, 120.25},
	}

	for _, prices := range sequences {
		stats := Aggregate(prices)

		max := prices[0]
		for _, p := range prices {
			if *stats.Min > p {
				t.Errorf("Min %v exceeds element %v in %v", *stats.Min, p, prices)
			}
			if p > max {
				max = p
			}
		}
		if *stats.Avg < *stats.Min || *stats.Avg > max {
			t.Errorf("Avg %v outside [%v, %v] for %v", *stats.Avg, *stats.Min, max, prices)
		}
	}
}
