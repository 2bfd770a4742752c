package advisory

import "testing"

func TestSimulateROIDeterministic(t *testing.T) {
	req := ROIRequest{Budget: 1_000_000, TimeHorizon: 5, PropertyType: "1br", AreaCluster: "growth-corridor"}

	y1, a1, e1, i1 := simulateROI(req)
	y2, a2, e2, i2 := simulateROI(req)
	if y1 != y2 || a1 != a2 || e1 != e2 || i1 != i2 {
		t.Fatal("same inputs produced different projections")
	}
}

func TestSimulateROIGrowthCorridorOneBedroom(t *testing.T) {
	yields, appreciation, exit, income := simulateROI(ROIRequest{
		Budget: 1_000_000, TimeHorizon: 5, PropertyType: "1br", AreaCluster: "growth-corridor",
	})

	if yields.Moderate != 7.8 {
		t.Fatalf("moderate yield = %v, want 7.8", yields.Moderate)
	}
	if yields.Conservative != 6.8 || yields.Optimistic != 8.8 {
		t.Fatalf("yield bracket = %v", yields)
	}
	if appreciation.Moderate != 8.0 {
		t.Fatalf("moderate appreciation = %v, want 8.0", appreciation.Moderate)
	}
	if income.Moderate != 78_000.0 {
		t.Fatalf("moderate income = %v, want 78000", income.Moderate)
	}
	if exit.Year1 != 1_080_000.0 {
		t.Fatalf("year1 exit = %v, want 1080000", exit.Year1)
	}
	if exit.Year10 <= exit.Year5 || exit.Year5 <= exit.Year3 || exit.Year3 <= exit.Year1 {
		t.Fatal("exit values must grow with the horizon")
	}
}

func TestSimulateROIYieldFloor(t *testing.T) {
	yields, _, _, _ := simulateROI(ROIRequest{
		Budget: 5_000_000, TimeHorizon: 10, PropertyType: "penthouse", AreaCluster: "prime",
	})
	// prime 5.5 - 1.0 penthouse = 4.5, above the 3.0 floor.
	if yields.Moderate != 4.5 {
		t.Fatalf("moderate yield = %v, want 4.5", yields.Moderate)
	}
	if yields.Conservative < 3.0-1.0 {
		t.Fatalf("conservative yield = %v below sanity floor", yields.Conservative)
	}
}

func TestSimulateROIUnknownClusterFallsBack(t *testing.T) {
	got, _, _, _ := simulateROI(ROIRequest{Budget: 500_000, PropertyType: "2br", AreaCluster: "moonbase"})
	want, _, _, _ := simulateROI(ROIRequest{Budget: 500_000, PropertyType: "2br", AreaCluster: "growth-corridor"})
	if got != want {
		t.Fatalf("unknown cluster = %v, want growth-corridor profile %v", got, want)
	}
}
