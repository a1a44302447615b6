package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/vidora/vidora-go/internal/apperr"
)

func TestStatsRejectsForeignChannel(t *testing.T) {
	svc := &DashboardService{}

	_, err := svc.Stats(context.Background(), uuid.New(), uuid.New())
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("err = %v, want Forbidden; the ownership check must run before any lookup", err)
	}
}

func TestGrowthPct(t *testing.T) {
	tests := []struct {
		name           string
		current, prior int64
		want           float64
	}{
		{"doubled", 200, 100, 100},
		{"halved", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"zero prior window", 500, 0, 0},
		{"both zero", 0, 0, 0},
		{"dropped to zero", 0, 40, -100},
		{"rounds to two decimals", 1, 3, -66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GrowthPct(tt.current, tt.prior); got != tt.want {
				t.Errorf("GrowthPct(%d, %d) = %v, want %v", tt.current, tt.prior, got, tt.want)
			}
		})
	}
}

func TestEngagementRate(t *testing.T) {
	tests := []struct {
		name         string
		likes, views int64
		want         float64
	}{
		{"one like per ten views", 10, 100, 10},
		{"zero views", 25, 0, 0},
		{"zero likes", 0, 1000, 0},
		{"rounds to two decimals", 1, 3, 33.33},
		{"over one hundred percent", 150, 100, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EngagementRate(tt.likes, tt.views); got != tt.want {
				t.Errorf("EngagementRate(%d, %d) = %v, want %v", tt.likes, tt.views, got, tt.want)
			}
		})
	}
}

func TestAvgPerItem(t *testing.T) {
	if got := AvgPerItem(1000, 4); got != 250 {
		t.Errorf("AvgPerItem(1000, 4) = %v, want 250", got)
	}
	if got := AvgPerItem(100, 3); got != 33.33 {
		t.Errorf("AvgPerItem(100, 3) = %v, want 33.33", got)
	}
	if got := AvgPerItem(500, 0); got != 0 {
		t.Errorf("AvgPerItem(500, 0) = %v, want 0", got)
	}
}
